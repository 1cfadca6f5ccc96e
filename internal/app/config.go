package app

import (
	"io"

	"stagehand/internal/config"
	"stagehand/internal/orchestrator"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the logging section.
	Debug bool

	// Hold keeps the process running after a successful boot until a
	// termination signal arrives.
	Hold bool

	// Custom configuration path (optional). Defaults to ~/.config/stagehand.
	ConfigPath string

	// LogOutput receives log lines. Nil means os.Stderr.
	LogOutput io.Writer

	// OnBootFinished is called once the boot attempt settles, before holding.
	OnBootFinished func(report *orchestrator.BootReport, err error)

	// StagehandConfig is loaded during bootstrap when nil.
	StagehandConfig *config.StagehandConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, hold bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Hold:       hold,
		ConfigPath: configPath,
	}
}
