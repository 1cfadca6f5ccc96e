package config

import "time"

const (
	// DefaultDiscoveryPath is relative to the configuration directory.
	DefaultDiscoveryPath = "services.d"

	// DefaultCacheTTL is how long a discovery scan is reused.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultAverageLoadTime feeds the parallel savings estimate.
	DefaultAverageLoadTime = 50 * time.Millisecond
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() StagehandConfig {
	return StagehandConfig{
		Discovery: DiscoveryConfig{
			Path:     DefaultDiscoveryPath,
			CacheTTL: DefaultCacheTTL,
		},
		Boot: BootConfig{
			AverageLoadTime: DefaultAverageLoadTime,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
