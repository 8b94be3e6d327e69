package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type DayCmd struct {
	date     string
	env      Env
	reporter DayHandler
}

func NewDayCmd(env Env, reporter DayHandler) *cobra.Command {
	dc := &DayCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "day <username>",
		Short: "Show the contributions of a user on a single day",
		Args:  cobra.ExactArgs(1),
		RunE:  dc.run,
	}

	cmd.Flags().StringVarP(&dc.date, "date", "d", "", "Day as YYYY-MM-DD (default today)")

	return cmd
}

func (dc *DayCmd) run(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(dc.env, dc.date)
	if err != nil {
		return err
	}

	day, err := dc.env.Reports().GetDay(cmd.Context(), args[0], date)
	if err != nil {
		return fmt.Errorf("failed to get contributions: %w", err)
	}

	return dc.reporter.HandleDay(day)
}
