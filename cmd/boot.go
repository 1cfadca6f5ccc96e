package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"stagehand/internal/app"
	"stagehand/internal/orchestrator"
)

type bootOptions struct {
	configPath string
	debug      bool
	hold       bool
	quiet      bool
}

func newBootCmd() *cobra.Command {
	opts := &bootOptions{}

	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Load every configured and discovered service",
		Long: `Loads the static services from config.yaml and the services discovered in
the discovery directory, one dependency level at a time.

Members of a level load in parallel. When a critical service fails the boot
stops after its level and exits with code 4; a dependency cycle exits with
code 3 before anything loads.

With --hold, stagehand keeps running after a successful boot and stops the
services in reverse load order on SIGINT or SIGTERM.

Configuration:
  Use --config-path to point at a directory containing:
  - config.yaml (main configuration)
  - services.d/ (discovered service definitions)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoot(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config-path", "", "Custom configuration directory path (default ~/.config/stagehand)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.hold, "hold", false, "Keep running after boot until interrupted, then stop services")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the progress spinner and boot report")

	return cmd
}

func runBoot(cmd *cobra.Command, opts *bootOptions) error {
	cfg := app.NewConfig(opts.debug, opts.hold, opts.configPath)
	cfg.LogOutput = cmd.ErrOrStderr()

	var s progress
	if !opts.quiet && !opts.debug {
		s = newSpinner(cmd.ErrOrStderr())
	}

	cfg.OnBootFinished = func(report *orchestrator.BootReport, err error) {
		if s != nil {
			s.Stop()
		}
		if opts.quiet {
			return
		}
		out := cmd.OutOrStdout()
		if report != nil && len(report.Groups) > 0 {
			renderBootReport(out, report)
		}
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", text.FgRed.Sprint("Boot failed:"), err)
			printConfigErrors(out, err)
			return
		}
		fmt.Fprintf(out, "%s %d services in %s\n",
			text.FgGreen.Sprint("Ready:"), report.Loaded(), report.Total.Round(time.Millisecond))
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		printConfigErrors(cmd.ErrOrStderr(), err)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if s != nil {
		s.Start()
		// Run can fail before the boot settles, e.g. when the metrics port is taken.
		defer s.Stop()
	}
	return application.Run(ctx)
}

// progress is the part of *spinner.Spinner runBoot uses.
type progress interface {
	Start()
	Stop()
}

// newSpinner is replaced in tests.
var newSpinner = func(w io.Writer) progress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " Booting services..."
	return s
}
