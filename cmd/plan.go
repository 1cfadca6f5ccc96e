package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"stagehand/internal/app"
	"stagehand/internal/dependency"
)

type planOptions struct {
	configPath string
	debug      bool
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the load groups without loading anything",
		Long: `Collects the configured and discovered services, groups them by dependency
level, and prints the groups together with each service's dependents and the
estimated time saved by loading each group in parallel.

Exits with code 3 and the names of the services involved when the
definitions contain a dependency cycle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config-path", "", "Custom configuration directory path (default ~/.config/stagehand)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *planOptions) error {
	cfg := app.NewConfig(opts.debug, false, opts.configPath)
	cfg.LogOutput = cmd.ErrOrStderr()

	application, err := app.NewApplication(cfg)
	if err != nil {
		printConfigErrors(cmd.ErrOrStderr(), err)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	set, groups, err := application.Plan(ctx)
	if err != nil {
		var cycle *dependency.CircularDependencyError
		if errors.As(err, &cycle) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", text.FgRed.Sprint("Dependency cycle:"), cycle.Names)
		}
		printConfigErrors(cmd.OutOrStdout(), err)
		return err
	}

	renderPlan(cmd.OutOrStdout(), dependency.NewGraph(set), groups, application.AverageLoadTime())
	return nil
}
