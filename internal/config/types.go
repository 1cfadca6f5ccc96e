package config

import (
	"time"

	"stagehand/internal/definition"
)

// StagehandConfig is the top-level configuration structure for stagehand.
type StagehandConfig struct {
	// Services are the statically configured definitions. They come first in
	// the boot input, ahead of discovered definitions.
	Services  definition.Set  `yaml:"services,omitempty"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Boot      BootConfig      `yaml:"boot"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// DiscoveryConfig controls how service definitions are found on disk.
type DiscoveryConfig struct {
	Path     string        `yaml:"path,omitempty"`     // Directory scanned for definitions (default: services.d)
	CacheTTL time.Duration `yaml:"cacheTTL,omitempty"` // How long a scan result is reused (default: 5m)
	Watch    bool          `yaml:"watch,omitempty"`    // Invalidate the cache when the directory changes
	Disabled bool          `yaml:"disabled,omitempty"` // Only boot the static services
}

// BootConfig tunes the boot sequence.
type BootConfig struct {
	MaxConcurrency  int           `yaml:"maxConcurrency,omitempty"`  // Loader calls per group at once, 0 for unbounded
	GroupTimeout    time.Duration `yaml:"groupTimeout,omitempty"`    // Deadline handed to loaders, 0 for none
	AverageLoadTime time.Duration `yaml:"averageLoadTime,omitempty"` // Used for the savings estimate (default: 50ms)
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	ListenAddress string `yaml:"listenAddress,omitempty"` // Empty disables the endpoint
}
