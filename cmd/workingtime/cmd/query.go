package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okpulse/workingtime/internal/timeutil"
	"github.com/okpulse/workingtime/internal/workingtime"
)

var isWorkingCmd = &cobra.Command{
	Use:   "is-working [HH:MM | YYYY-MM-DD HH:MM]",
	Short: "Is the instant inside a working window",
	Long: `Prints true when the instant lies inside the working window of a working
date. HH:MM is taken on the reference date.

Examples:
  workingtime is-working
  workingtime is-working 17:30
  workingtime is-working 2016-10-29 10:00`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		ok, err := e.IsWorkingTimeString(instantArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	},
}

// dateQuery builds a command answering a yes/no question about one date.
func dateQuery(use, short string, q func(*workingtime.Engine, time.Time) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [date]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			t, err := e.ParseInstant(instantArg(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q(e, t))
			return nil
		},
	}
}

var nextDayCmd = &cobra.Command{
	Use:   "next-day [date]",
	Short: "First working date after the date",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		t, err := e.ParseInstant(instantArg(args))
		if err != nil {
			return err
		}
		day, err := e.NextWorkingDay(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), day.Format(timeutil.LayoutDate))
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next [instant]",
	Short: "Next working instant at or after the instant",
	Long: `Prints the instant itself when it is working time, otherwise the start of
the next working window.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		t, err := e.ParseInstant(instantArg(args))
		if err != nil {
			return err
		}
		next, _, err := e.NextWorkingTime(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), next.Format(timeutil.LayoutDateTime))
		return nil
	},
}

var nextStartCmd = &cobra.Command{
	Use:   "next-start [date]",
	Short: "Window start of the next working day",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		t, err := e.ParseInstant(instantArg(args))
		if err != nil {
			return err
		}
		start, err := e.NextWorkingDayStart(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), start.Format(timeutil.LayoutDateTime))
		return nil
	},
}

var minutesLeftCmd = &cobra.Command{
	Use:   "minutes-left [instant]",
	Short: "Working minutes left in the instant's day",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		t, err := e.ParseInstant(instantArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.JobMinutesInDay(t))
		return nil
	},
}

var layouts = map[string]string{
	"datetime-sec": timeutil.LayoutDateTimeSec,
	"datetime":     timeutil.LayoutDateTime,
	"date":         timeutil.LayoutDate,
	"clock":        timeutil.LayoutClock,
	"day-month":    timeutil.LayoutDayMonth,
}

var validateCmd = &cobra.Command{
	Use:   "validate <value> [layout]",
	Short: "Check a value against a date layout",
	Long: `Prints true when value parses under layout and formats back to exactly
value. Layout is one of datetime-sec (default), datetime, date, clock,
day-month, or a Go time layout.

Examples:
  workingtime validate "2016-10-27 17:30:00"
  workingtime validate 2021-02-30 date`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout := timeutil.LayoutDateTimeSec
		if len(args) == 2 {
			layout = args[1]
			if l, ok := layouts[args[1]]; ok {
				layout = l
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), workingtime.ValidateDate(args[0], layout))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(
		isWorkingCmd,
		dateQuery("is-holiday", "Is the date a configured holiday", (*workingtime.Engine).IsHoliday),
		dateQuery("is-weekend", "Is the date a weekend day", (*workingtime.Engine).IsWeekend),
		dateQuery("is-working-date", "Is the date neither weekend nor holiday", (*workingtime.Engine).IsWorkingDate),
		nextDayCmd,
		nextCmd,
		nextStartCmd,
		minutesLeftCmd,
		validateCmd,
	)
}
