package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"stagehand/internal/config"
	"stagehand/internal/definition"
	"stagehand/internal/dependency"
	"stagehand/internal/discovery"
	"stagehand/internal/orchestrator"
	"stagehand/pkg/logging"
)

// replanTimeout bounds the rescan triggered by a definition change.
const replanTimeout = 30 * time.Second

// shutdownTimeout bounds how long stopping the loaded services may take.
const shutdownTimeout = 30 * time.Second

// Application bootstraps and runs one stagehand boot.
//
// Example usage:
//
//	cfg := app.NewConfig(false, true, "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config         *Config
	stagehandCfg   config.StagehandConfig
	services       *Services
	configPath     string
	signalNotifier signalNotifier
}

// NewApplication loads configuration, initializes logging, and wires services.
func NewApplication(cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}

	// Bootstrap logging so configuration loading can report.
	bootLevel := logging.LevelInfo
	if cfg.Debug {
		bootLevel = logging.LevelDebug
	}
	logging.InitForCLI(bootLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	var stagehandCfg config.StagehandConfig
	if cfg.StagehandConfig != nil {
		stagehandCfg = *cfg.StagehandConfig
	} else {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
			return nil, fmt.Errorf("failed to load stagehand configuration from %s: %w", configPath, err)
		}
		stagehandCfg = loaded
	}

	level, err := logging.ParseLevel(stagehandCfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, logging.Format(stagehandCfg.Logging.Format), logOutput)

	application := &Application{
		config:         cfg,
		stagehandCfg:   stagehandCfg,
		configPath:     configPath,
		signalNotifier: osSignalNotifier,
	}

	services, err := InitializeServices(stagehandCfg, discovery.WithOnChange(application.replan))
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	application.services = services

	return application, nil
}

// Services returns the wired components.
func (a *Application) Services() *Services {
	return a.services
}

// Definitions returns the static definitions followed by the discovered ones.
func (a *Application) Definitions(ctx context.Context) (definition.Set, error) {
	set := a.stagehandCfg.Services.Clone()
	if a.services.Discoverer == nil {
		return set, nil
	}

	discovered, err := a.services.Discoverer.Discover(ctx, a.stagehandCfg.Discovery.Path)
	if err != nil {
		return nil, fmt.Errorf("service discovery failed: %w", err)
	}
	return set.Merge(discovered), nil
}

// Plan groups the definitions without loading anything.
func (a *Application) Plan(ctx context.Context) (definition.Set, []dependency.LoadGroup, error) {
	set, err := a.Definitions(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := set.Validate(); err != nil {
		return set, nil, err
	}
	groups, err := dependency.Group(set)
	if err != nil {
		return set, nil, err
	}
	return set, groups, nil
}

// AverageLoadTime is the configured per-service estimate.
func (a *Application) AverageLoadTime() time.Duration {
	if a.stagehandCfg.Boot.AverageLoadTime > 0 {
		return a.stagehandCfg.Boot.AverageLoadTime
	}
	return orchestrator.DefaultAverageLoadTime
}

// Boot loads every definition. On failure the services that did load are
// shut down before the boot error is returned.
func (a *Application) Boot(ctx context.Context) (*orchestrator.Registry, error) {
	set, err := a.Definitions(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := a.services.Orchestrator.Boot(ctx, set)
	if err != nil {
		if partial := a.services.Orchestrator.Registry(); partial != nil && partial.Len() > 0 {
			logging.Warn("Bootstrap", "Shutting down %d services loaded before the failure", partial.Len())
			if stopErr := a.shutdown(partial); stopErr != nil {
				err = errors.Join(err, stopErr)
			}
		}
		return nil, err
	}

	notifyReady()
	return registry, nil
}

// Report returns the report of the latest boot attempt.
func (a *Application) Report() *orchestrator.BootReport {
	return a.services.Orchestrator.Report()
}

// Run boots and, with Hold set, keeps the services up until a termination
// signal arrives or ctx is done.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopMetrics, err := a.startMetricsServer(ctx)
	if err != nil {
		return err
	}
	defer stopMetrics()

	registry, err := a.Boot(ctx)
	if a.config.OnBootFinished != nil {
		a.config.OnBootFinished(a.Report(), err)
	}
	if err != nil {
		return err
	}

	if !a.config.Hold {
		return nil
	}

	if a.services.Watcher != nil {
		if err := a.services.Watcher.Start(ctx); err != nil {
			logging.Warn("Bootstrap", "Definition watcher not started: %v", err)
		} else {
			defer a.services.Watcher.Stop()
		}
	}

	return a.hold(ctx, registry)
}

func (a *Application) shutdown(registry *orchestrator.Registry) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return registry.Shutdown(ctx)
}

// ConfigPath is the configuration directory in use.
func (a *Application) ConfigPath() string {
	return a.configPath
}

// replan regroups the definitions after the discovery directory changed and
// reports whether a restart would boot. The running services are untouched.
func (a *Application) replan(dir string) {
	ctx, cancel := context.WithTimeout(context.Background(), replanTimeout)
	defer cancel()

	set, groups, err := a.Plan(ctx)
	if err == nil {
		logging.Info("Discovery", "Definitions in %s changed: %d services in %d groups, restart to apply",
			dir, len(set), len(groups))
		return
	}

	var cycle *dependency.CircularDependencyError
	var duplicate *definition.DuplicateDefinitionError
	switch {
	case errors.As(err, &cycle):
		logging.Error("Discovery", err, "Definitions in %s changed and would not boot: circular dependency among %s",
			dir, strings.Join(cycle.Names, ", "))
	case errors.As(err, &duplicate):
		logging.Error("Discovery", err, "Definitions in %s changed and would not boot: duplicate services %s",
			dir, strings.Join(duplicate.Names, ", "))
	default:
		logging.Error("Discovery", err, "Definitions in %s changed and would not boot", dir)
	}
}
