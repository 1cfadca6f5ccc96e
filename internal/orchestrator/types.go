package orchestrator

import (
	"context"
	"time"

	"stagehand/internal/definition"
)

// Instance is a live service produced by a Loader. The orchestrator never
// inspects it.
type Instance interface{}

// Loader constructs the service described by def. It is called concurrently
// for all members of a load group and should honour ctx cancellation.
type Loader func(ctx context.Context, def definition.Definition) (Instance, error)

// LoadOutcome is the settled result of one loader call. Exactly one of
// Instance and Err is set.
type LoadOutcome struct {
	Name     string
	Critical bool
	Instance Instance
	Err      error
}

// Failed reports whether the load failed.
func (o LoadOutcome) Failed() bool {
	return o.Err != nil
}

// LoadFailure names a service that failed to load and why.
type LoadFailure struct {
	Name     string
	Critical bool
	Err      error
}

// GroupResult is everything the executor learned about one group.
type GroupResult struct {
	Index    int
	Names    []string
	Loaded   map[string]Instance
	Failures []LoadFailure
	Duration time.Duration
}

// CriticalFailures returns the failures of critical members.
func (r *GroupResult) CriticalFailures() []LoadFailure {
	var out []LoadFailure
	for _, f := range r.Failures {
		if f.Critical {
			out = append(out, f)
		}
	}
	return out
}

// Metrics receives boot measurements. A nil Metrics is allowed everywhere.
type Metrics interface {
	ObserveGroup(index int, duration time.Duration, succeeded, failed int)
	ObserveBoot(outcome string, duration time.Duration)
}
