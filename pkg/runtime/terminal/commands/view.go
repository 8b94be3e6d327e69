package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const defaultFormat = "text"

type ViewCmd struct {
	date      string
	format    string
	env       Env
	reporters map[string]ReportHandler
}

func NewViewCmd(env Env, reporters map[string]ReportHandler) *cobra.Command {
	vc := &ViewCmd{env: env, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "view <username>",
		Short: "Summarize the contributions of a user",
		Args:  cobra.ExactArgs(1),
		RunE:  vc.run,
	}

	cmd.Flags().StringVarP(&vc.date, "date", "d", "", "Reference date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&vc.format, "format", "f", defaultFormat,
		fmt.Sprintf("Output format (%s)", strings.Join(vc.formats(), ", ")))

	return cmd
}

func (vc *ViewCmd) formats() []string {
	formats := make([]string, 0, len(vc.reporters))
	for f := range vc.reporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

func (vc *ViewCmd) run(cmd *cobra.Command, args []string) error {
	reporter, ok := vc.reporters[vc.format]
	if !ok {
		return fmt.Errorf("unsupported format %q. Supported formats: %v", vc.format, vc.formats())
	}

	ref, err := resolveDate(vc.env, vc.date)
	if err != nil {
		return err
	}

	report, err := vc.env.Reports().GetReport(cmd.Context(), args[0], ref)
	if err != nil {
		return fmt.Errorf("failed to get contributions: %w", err)
	}

	return reporter.Handle(report)
}
