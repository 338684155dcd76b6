package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okpulse/workingtime/internal/workingtime"
)

var addCmd = &cobra.Command{
	Use:   "add <minutes> [instant]",
	Short: "Move an instant forward by working minutes",
	Long: `Adds working minutes to the instant, or to the reference instant when none
is given, skipping nights, weekends and holidays.

Examples:
  workingtime add 540 2016-10-27 09:00
  workingtime add 90 --at "2016-10-27 17:30"`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q is not a number of minutes", workingtime.ErrInvalidArgument, args[0])
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		res, err := e.ModifyString(minutes, instantArg(args[1:]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

var betweenCmd = &cobra.Command{
	Use:   "between <start> <end>",
	Short: "Working minutes between two instants",
	Long: `Counts the working minutes from start to end. Both are written as
YYYY-MM-DD HH:MM:SS, quoted or as two separate arguments each.

Examples:
  workingtime between "2016-10-27 17:30:00" "2016-10-28 10:00:00"
  workingtime between 2016-10-27 17:30:00 2016-10-28 10:00:00`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 && len(args) != 4 {
			return fmt.Errorf("expected start and end, got %d args", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end := args[0], args[1]
		if len(args) == 4 {
			start, end = instantArg(args[:2]), instantArg(args[2:])
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		minutes, err := e.CalculatingWorkingTime(start, end)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), minutes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd, betweenCmd)
}
