package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stagehand/internal/definition"
	"stagehand/internal/dependency"
	"stagehand/pkg/logging"
)

const orchestratorSource = "Orchestrator"

// DefaultAverageLoadTime feeds the savings estimate when none is configured.
const DefaultAverageLoadTime = 50 * time.Millisecond

// State is the boot state of an Orchestrator.
type State int

const (
	StatePending State = iota
	StateGrouping
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateGrouping:
		return "Grouping"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// StateChange describes one transition. Group is the index of the group
// being loaded and -1 outside StateLoading.
type StateChange struct {
	BootID string
	From   State
	To     State
	Group  int
	Err    error
}

// Config holds the configuration for the orchestrator.
type Config struct {
	Loader Loader

	MaxConcurrency  int
	GroupTimeout    time.Duration
	AverageLoadTime time.Duration

	// Sink receives all boot diagnostics. Nil means logging.Discard.
	Sink    logging.Sink
	Metrics Metrics

	// OnStateChange is called synchronously on every transition.
	OnStateChange func(StateChange)
}

// Orchestrator drives one boot: it groups the definitions once and then
// loads the groups strictly one after another.
type Orchestrator struct {
	loader          Loader
	maxConcurrency  int
	groupTimeout    time.Duration
	averageLoadTime time.Duration
	sink            logging.Sink
	metrics         Metrics
	onStateChange   func(StateChange)

	mu       sync.RWMutex
	state    State
	group    int
	bootID   string
	registry *Registry
	report   *BootReport
	lastErr  error
}

// New creates an orchestrator in StatePending.
func New(cfg Config) *Orchestrator {
	sink := cfg.Sink
	if sink == nil {
		sink = logging.Discard
	}
	avg := cfg.AverageLoadTime
	if avg <= 0 {
		avg = DefaultAverageLoadTime
	}
	return &Orchestrator{
		loader:          cfg.Loader,
		maxConcurrency:  cfg.MaxConcurrency,
		groupTimeout:    cfg.GroupTimeout,
		averageLoadTime: avg,
		sink:            sink,
		metrics:         cfg.Metrics,
		onStateChange:   cfg.OnStateChange,
		state:           StatePending,
		group:           -1,
		registry:        NewRegistry(),
	}
}

// State returns the current state and, while loading, the group index.
func (o *Orchestrator) State() (State, int) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state, o.group
}

// Registry returns the services loaded by the latest boot attempt. After a
// failed boot it holds whatever loaded before the failure.
func (o *Orchestrator) Registry() *Registry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.registry
}

// Report returns the report of the latest boot attempt, or nil.
func (o *Orchestrator) Report() *BootReport {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.report
}

// Err returns the error of the latest failed boot attempt.
func (o *Orchestrator) Err() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastErr
}

// Boot validates and groups set, then loads the groups in order. It returns
// the registry once every group has loaded. It fails with a
// *dependency.CircularDependencyError before loading anything, or with a
// *CriticalLoadError after the first group whose critical member failed; no
// later group is started in either case.
//
// Boot may be called again after a failure, which starts over from
// StatePending with an empty registry.
func (o *Orchestrator) Boot(ctx context.Context, set definition.Set) (*Registry, error) {
	bootID, registry, err := o.begin()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &BootReport{BootID: bootID}
	sink := logging.WithFields(o.sink, logging.Fields{"bootID": bootID})

	fail := func(err error) (*Registry, error) {
		report.Total = time.Since(start)
		report.State = StateFailed
		o.finish(report, err)
		if o.metrics != nil {
			o.metrics.ObserveBoot(StateFailed.String(), report.Total)
		}
		return nil, err
	}

	if o.loader == nil {
		return fail(errors.New("no loader configured"))
	}
	if err := set.Validate(); err != nil {
		sink.Emit(logging.Record{
			Timestamp: time.Now(),
			Level:     logging.LevelError,
			Source:    orchestratorSource,
			Message:   "invalid service definitions",
			Err:       err,
		})
		return fail(err)
	}

	groups, err := dependency.Group(set)
	if err != nil {
		fields := logging.Fields{}
		var cycleErr *dependency.CircularDependencyError
		if errors.As(err, &cycleErr) {
			fields["services"] = cycleErr.Names
		}
		sink.Emit(logging.Record{
			Timestamp: time.Now(),
			Level:     logging.LevelError,
			Source:    orchestratorSource,
			Message:   "circular dependency detected",
			Err:       err,
			Fields:    fields,
		})
		return fail(err)
	}

	report.EstimatedSavings = EstimateSavings(groups, o.averageLoadTime)
	sink.Emit(logging.Record{
		Timestamp: time.Now(),
		Level:     logging.LevelInfo,
		Source:    orchestratorSource,
		Message:   "boot plan ready",
		Fields: logging.Fields{
			"services":         len(set),
			"groups":           len(groups),
			"estimatedSavings": report.EstimatedSavings.String(),
		},
	})

	executor := NewExecutor(ExecutorOptions{
		MaxConcurrency: o.maxConcurrency,
		GroupTimeout:   o.groupTimeout,
		Sink:           sink,
		Metrics:        o.metrics,
	})

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("boot interrupted before group %d: %w", group.Index, err))
		}

		o.transition(StateLoading, group.Index, nil)

		result, err := executor.Execute(ctx, group, o.loader)
		registry.add(group.Index, result.Names, result.Loaded)
		report.Groups = append(report.Groups, timingFor(result))

		if err != nil {
			var critErr *CriticalLoadError
			if errors.As(err, &critErr) {
				blocked := dependency.NewGraph(set).TransitiveDependents(critErr.Names()...)
				sink.Emit(logging.Record{
					Timestamp: time.Now(),
					Level:     logging.LevelError,
					Source:    orchestratorSource,
					Message:   "boot aborted by critical failure",
					Err:       err,
					Fields: logging.Fields{
						"group":   group.Index,
						"failed":  critErr.Names(),
						"blocked": blocked,
					},
				})
			}
			return fail(err)
		}
	}

	report.Total = time.Since(start)
	report.State = StateReady
	o.finish(report, nil)
	if o.metrics != nil {
		o.metrics.ObserveBoot(StateReady.String(), report.Total)
	}

	sink.Emit(logging.Record{
		Timestamp: time.Now(),
		Level:     logging.LevelInfo,
		Source:    orchestratorSource,
		Message:   "boot completed",
		Fields: logging.Fields{
			"loaded":   registry.Len(),
			"failed":   report.FailedServices(),
			"duration": report.Total.String(),
		},
	})
	return registry, nil
}

// begin moves a pending or failed orchestrator into StateGrouping and
// resets the per-attempt state.
func (o *Orchestrator) begin() (string, *Registry, error) {
	o.mu.Lock()
	switch o.state {
	case StateGrouping, StateLoading:
		o.mu.Unlock()
		return "", nil, ErrBootInProgress
	case StateReady:
		o.mu.Unlock()
		return "", nil, ErrAlreadyBooted
	}

	from := o.state
	o.state = StateGrouping
	o.group = -1
	o.bootID = uuid.New().String()
	o.registry = NewRegistry()
	o.report = nil
	o.lastErr = nil
	bootID, registry := o.bootID, o.registry
	change := StateChange{BootID: bootID, From: from, To: StateGrouping, Group: -1}
	o.mu.Unlock()

	o.notify(change)
	return bootID, registry, nil
}

func (o *Orchestrator) transition(to State, group int, err error) {
	o.mu.Lock()
	change := StateChange{BootID: o.bootID, From: o.state, To: to, Group: group, Err: err}
	o.state = to
	o.group = group
	o.mu.Unlock()

	o.notify(change)
}

func (o *Orchestrator) finish(report *BootReport, err error) {
	o.mu.Lock()
	o.report = report
	o.lastErr = err
	o.mu.Unlock()

	if err != nil {
		o.transition(StateFailed, -1, err)
		return
	}
	o.transition(StateReady, -1, nil)
}

func (o *Orchestrator) notify(change StateChange) {
	o.sink.Emit(logging.Record{
		Timestamp: time.Now(),
		Level:     logging.LevelDebug,
		Source:    orchestratorSource,
		Message:   "state changed",
		Err:       change.Err,
		Fields: logging.Fields{
			"bootID": change.BootID,
			"from":   change.From.String(),
			"to":     change.To.String(),
			"group":  change.Group,
		},
	})
	if o.onStateChange != nil {
		o.onStateChange(change)
	}
}
