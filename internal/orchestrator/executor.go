package orchestrator

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"stagehand/internal/definition"
	"stagehand/internal/dependency"
	"stagehand/pkg/logging"
)

const executorSource = "Executor"

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	// MaxConcurrency caps simultaneous loader calls within a group.
	// Zero or less means every member starts at once.
	MaxConcurrency int

	// GroupTimeout, when positive, bounds the context handed to loaders.
	// Loaders that ignore their context still block the group.
	GroupTimeout time.Duration

	// Sink receives the group diagnostics. Nil means logging.Discard.
	Sink logging.Sink

	// Metrics is optional.
	Metrics Metrics
}

// Executor loads one group at a time: it fans the loader out over every
// member, waits for all of them to settle and then applies the critical
// failure policy. It keeps no state between groups.
type Executor struct {
	maxConcurrency int
	groupTimeout   time.Duration
	sink           logging.Sink
	metrics        Metrics
}

// NewExecutor creates an Executor.
func NewExecutor(opts ExecutorOptions) *Executor {
	sink := opts.Sink
	if sink == nil {
		sink = logging.Discard
	}
	return &Executor{
		maxConcurrency: opts.MaxConcurrency,
		groupTimeout:   opts.GroupTimeout,
		sink:           sink,
		metrics:        opts.Metrics,
	}
}

// ExecuteGroup loads every member of group and returns the instances of the
// members that loaded. Non-critical failures are logged and left out of the
// result. If any critical member failed, a *CriticalLoadError listing all of
// them is returned instead.
func (e *Executor) ExecuteGroup(ctx context.Context, group dependency.LoadGroup, loader Loader) (map[string]Instance, error) {
	result, err := e.Execute(ctx, group, loader)
	if err != nil {
		return nil, err
	}
	return result.Loaded, nil
}

// Execute is ExecuteGroup returning the full GroupResult. The result is
// non-nil even when a *CriticalLoadError is returned.
func (e *Executor) Execute(ctx context.Context, group dependency.LoadGroup, loader Loader) (*GroupResult, error) {
	names := group.Names()
	e.sink.Emit(logging.Record{
		Timestamp: time.Now(),
		Level:     logging.LevelInfo,
		Source:    executorSource,
		Message:   "group started",
		Fields: logging.Fields{
			"group":    group.Index,
			"services": names,
			"count":    len(names),
		},
	})

	loadCtx := ctx
	if e.groupTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, e.groupTimeout)
		defer cancel()
	}

	start := time.Now()
	outcomes := e.fanOut(loadCtx, group.Members, loader)
	duration := time.Since(start)

	result := &GroupResult{
		Index:    group.Index,
		Names:    names,
		Loaded:   make(map[string]Instance, len(outcomes)),
		Duration: duration,
	}
	for _, o := range outcomes {
		if !o.Failed() {
			result.Loaded[o.Name] = o.Instance
			continue
		}

		result.Failures = append(result.Failures, LoadFailure{Name: o.Name, Critical: o.Critical, Err: o.Err})
		level := logging.LevelWarn
		if o.Critical {
			level = logging.LevelError
		}
		e.sink.Emit(logging.Record{
			Timestamp: time.Now(),
			Level:     level,
			Source:    executorSource,
			Message:   "service failed to load",
			Err:       o.Err,
			Fields: logging.Fields{
				"group":    group.Index,
				"service":  o.Name,
				"critical": o.Critical,
			},
		})
	}

	critical := result.CriticalFailures()

	level := logging.LevelInfo
	if len(critical) > 0 {
		level = logging.LevelError
	}
	e.sink.Emit(logging.Record{
		Timestamp: time.Now(),
		Level:     level,
		Source:    executorSource,
		Message:   "group completed",
		Fields: logging.Fields{
			"group":     group.Index,
			"services":  names,
			"succeeded": len(result.Loaded),
			"failed":    len(result.Failures),
			"duration":  duration.String(),
		},
	})
	if e.metrics != nil {
		e.metrics.ObserveGroup(group.Index, duration, len(result.Loaded), len(result.Failures))
	}

	if len(critical) > 0 {
		return result, &CriticalLoadError{
			Group:    group.Index,
			Failures: critical,
			Loaded:   result.Loaded,
		}
	}
	return result, nil
}

// fanOut starts the loader for every member and waits for all of them.
// Each goroutine only writes its own slot, so outcomes needs no lock.
func (e *Executor) fanOut(ctx context.Context, members []definition.Definition, loader Loader) []LoadOutcome {
	outcomes := make([]LoadOutcome, len(members))

	var g errgroup.Group
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}
	for i, member := range members {
		g.Go(func() error {
			outcomes[i] = load(ctx, member, loader)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func load(ctx context.Context, def definition.Definition, loader Loader) (outcome LoadOutcome) {
	outcome = LoadOutcome{Name: def.Name, Critical: def.Critical}

	defer func() {
		if r := recover(); r != nil {
			outcome.Instance = nil
			outcome.Err = &PanicError{Value: r}
		}
	}()

	instance, err := loader(ctx, def.Clone())
	switch {
	case err != nil:
		outcome.Err = err
	case instance == nil:
		outcome.Err = errors.New("loader returned no instance")
	default:
		outcome.Instance = instance
	}
	return outcome
}
