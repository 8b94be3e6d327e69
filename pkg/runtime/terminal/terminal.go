package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/contriview/pkg/runtime/terminal/commands"
	"github.com/de-tools/contriview/pkg/runtime/terminal/export"
	"github.com/de-tools/contriview/pkg/services/config"
	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/fetcher"
	"github.com/de-tools/contriview/pkg/services/report"
	"github.com/spf13/cobra"
)

// ServiceFactory builds the report service from the loaded configuration.
type ServiceFactory func(cfg *config.Config) (report.Service, error)

// CLI represents the command-line interface
type CLI struct {
	services   ServiceFactory
	now        func() time.Time
	logOutput  io.Writer
	reporter   *Reporter
	table      *export.Reporter
	configPath string
	reports    report.Service
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Services  ServiceFactory
	Now       func() time.Time
	Output    io.Writer
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Services == nil {
		opts.Services = DefaultServiceFactory
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		services:  opts.Services,
		now:       opts.Now,
		logOutput: opts.LogOutput,
		reporter:  NewReporter(opts.Output),
		table:     export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

// DefaultServiceFactory fetches documents from GitHub and parses them with the
// configured selectors.
func DefaultServiceFactory(cfg *config.Config) (report.Service, error) {
	f, err := fetcher.NewGitHubFetcher(cfg.FetcherSettings())
	if err != nil {
		return nil, err
	}
	builder := contributions.NewBuilder(contributions.NewParser(cfg.ParserOptions()))
	return report.NewService(f, builder), nil
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) Reports() report.Service {
	return cli.reports
}

func (cli *CLI) Now() time.Time {
	return cli.now()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "contriview",
		Short:             "GitHub contributions summary tool",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to the config file (default is ./.contriview.yaml)")

	cmd.AddCommand(commands.NewViewCmd(cli, map[string]commands.ReportHandler{
		"text":  cli.reporter,
		"table": cli.table,
	}))
	cmd.AddCommand(commands.NewDayCmd(cli, cli.reporter))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := cfg.Logger(cli.logOutput)
	cmd.SetContext(logger.WithContext(cmd.Context()))

	reports, err := cli.services(cfg)
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}
	cli.reports = reports

	logger.Debug().Str("base_url", cfg.GitHub.BaseURL).Msg("configuration loaded")
	return nil
}
