package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okpulse/workingtime/internal/config"
	"github.com/okpulse/workingtime/internal/store"
)

var dbPath string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage the calendars stored for the bot",
	Long: `Imports, exports and lists the named calendars kept in the bot database.

Examples:
  workingtime calendar list
  workingtime calendar import configs/calendar.toml office
  workingtime calendar export office > office.toml`,
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored calendars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		names, err := st.ListCalendars()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var calendarImportCmd = &cobra.Command{
	Use:   "import <file> [name]",
	Short: "Store a calendar file under a name",
	Long: `Validates a TOML or YAML calendar file and stores it. The name defaults to
the file name without extension. An existing calendar is replaced.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cal, err := config.LoadCalendar(args[0])
		if err != nil {
			return err
		}
		cfg, err := cal.WorkingTime()
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		if len(args) == 2 {
			name = args[1]
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveCalendar(name, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "calendar %s stored\n", name)
		return nil
	},
}

var calendarExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a stored calendar as TOML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cfg, err := st.GetCalendar(args[0])
		if err != nil {
			return fmt.Errorf("calendar %s: %w", args[0], err)
		}
		b, err := config.EncodeCalendar(config.FromWorkingTime(cfg))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var calendarDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored calendar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteCalendar(args[0]); err != nil {
			return fmt.Errorf("calendar %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "calendar %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarListCmd, calendarImportCmd, calendarExportCmd, calendarDeleteCmd)

	calendarCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default: DATABASE_URL or ./data/data.db)")
}

func openStore() (*store.Store, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DatabaseURL = dbPath
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}
	return store.Open(cfg.DatabaseURL)
}
