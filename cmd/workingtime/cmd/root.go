package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okpulse/workingtime/internal/config"
	"github.com/okpulse/workingtime/internal/logger"
	"github.com/okpulse/workingtime/internal/workingtime"
)

var (
	calendarFile string
	atFlag       string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "workingtime",
	Short: "Working time calendar arithmetic",
	Long: `workingtime answers questions about working time: is an instant inside
the working window, when does work resume, how many working minutes lie
between two instants and where do N working minutes from now end.

Without --calendar the CALENDAR_FILE environment variable is used, and
without either a Monday to Friday 09:00-18:00 week.

Instants are written as 2016-10-27 17:30:00, 2016-10-27 17:30 or 2016-10-27.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&calendarFile, "calendar", "c", "", "calendar file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&atFlag, "at", "", "reference instant instead of now")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log day rolls to stderr")
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func loadCalendar() (config.Calendar, error) {
	path := calendarFile
	if path == "" {
		path = config.Load().CalendarFile
	}
	if path == "" {
		return config.DefaultCalendar(), nil
	}
	return config.LoadCalendar(path)
}

// newEngine builds the engine for one command run from the selected calendar
// and the --at reference.
func newEngine() (*workingtime.Engine, error) {
	cal, err := loadCalendar()
	if err != nil {
		return nil, err
	}
	cfg, err := cal.WorkingTime()
	if err != nil {
		return nil, err
	}

	level := "off"
	if verbose {
		level = "debug"
	}
	opts := []workingtime.Option{workingtime.WithLogger(logger.New(level))}

	e, err := workingtime.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if atFlag == "" {
		return e, nil
	}
	ref, err := e.ParseInstant(atFlag)
	if err != nil {
		return nil, fmt.Errorf("--at: %w", err)
	}
	return workingtime.New(cfg, append(opts, workingtime.WithReference(ref))...)
}

// instantArg joins positional args so both `2016-10-27 17:30` and
// "2016-10-27 17:30" are accepted.
func instantArg(args []string) string {
	return strings.Join(args, " ")
}
