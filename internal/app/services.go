package app

import (
	"fmt"

	"stagehand/internal/config"
	"stagehand/internal/discovery"
	"stagehand/internal/metrics"
	"stagehand/internal/orchestrator"
	"stagehand/internal/services"
	"stagehand/pkg/logging"
)

// Services holds the components wired together for one application run.
type Services struct {
	// Factories resolves definition types to loaders.
	Factories *services.Registry

	// Discoverer scans the discovery directory. Nil when discovery is disabled.
	Discoverer *discovery.Discoverer

	// Watcher invalidates the discovery cache. Nil unless discovery.watch is set.
	Watcher *discovery.Watcher

	// Metrics records boot measurements. Nil unless metrics.listenAddress is set.
	Metrics *metrics.BootMetrics

	// Orchestrator drives the boot.
	Orchestrator *orchestrator.Orchestrator
}

// InitializeServices wires the components described by cfg. watcherOpts are
// applied to the definition watcher when discovery.watch is set.
func InitializeServices(cfg config.StagehandConfig, watcherOpts ...discovery.WatcherOption) (*Services, error) {
	factories := services.NewRegistry()
	if err := services.RegisterBuiltins(factories); err != nil {
		return nil, fmt.Errorf("failed to register service factories: %w", err)
	}

	s := &Services{Factories: factories}

	if !cfg.Discovery.Disabled && cfg.Discovery.Path != "" {
		s.Discoverer = discovery.NewDiscoverer(cfg.Discovery.CacheTTL)
		if cfg.Discovery.Watch {
			s.Watcher = discovery.NewWatcher(cfg.Discovery.Path, s.Discoverer, watcherOpts...)
		}
	}

	if cfg.Metrics.ListenAddress != "" {
		s.Metrics = metrics.NewBootMetrics()
	}

	orchCfg := orchestrator.Config{
		Loader:          factories.Loader(),
		MaxConcurrency:  cfg.Boot.MaxConcurrency,
		GroupTimeout:    cfg.Boot.GroupTimeout,
		AverageLoadTime: cfg.Boot.AverageLoadTime,
		Sink:            logging.DefaultSink(),
	}
	if s.Metrics != nil {
		orchCfg.Metrics = s.Metrics
	}
	s.Orchestrator = orchestrator.New(orchCfg)

	logging.Debug("Bootstrap", "Initialized services (factories: %v, discovery: %t, metrics: %t)",
		factories.Types(), s.Discoverer != nil, s.Metrics != nil)
	return s, nil
}
