package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"stagehand/internal/config"
	"stagehand/internal/definition"
	"stagehand/internal/dependency"
	"stagehand/internal/orchestrator"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidConfig indicates unreadable configuration or invalid definitions.
	ExitCodeInvalidConfig = 2
	// ExitCodeCycle indicates the definitions contain a dependency cycle.
	ExitCodeCycle = 3
	// ExitCodeCriticalLoad indicates a critical service failed to load.
	ExitCodeCriticalLoad = 4
)

// rootCmd represents the base command for the stagehand application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Boot services in dependency order, in parallel",
	Long: `stagehand turns a flat list of service definitions into a dependency-ordered,
maximally parallel boot sequence. Services that share no dependency path load
together; a failing critical service stops the boot, a failing non-critical
service is reported and skipped.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "stagehand version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var cycle *dependency.CircularDependencyError
	if errors.As(err, &cycle) {
		return ExitCodeCycle
	}

	var critical *orchestrator.CriticalLoadError
	if errors.As(err, &critical) {
		return ExitCodeCriticalLoad
	}

	var duplicate *definition.DuplicateDefinitionError
	var invalid *definition.InvalidDefinitionError
	var configErr config.ConfigurationError
	var configErrs config.ConfigurationErrorCollection
	var validation config.ValidationErrors
	if errors.As(err, &duplicate) || errors.As(err, &invalid) ||
		errors.As(err, &configErr) || errors.As(err, &configErrs) || errors.As(err, &validation) {
		return ExitCodeInvalidConfig
	}

	// Default to general error
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBootCmd())
	rootCmd.AddCommand(newPlanCmd())
}
