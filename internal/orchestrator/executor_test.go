package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/definition"
	"stagehand/internal/dependency"
	"stagehand/pkg/logging"
)

type fakeMetrics struct {
	mu     sync.Mutex
	groups []int
	boots  []string
}

func (m *fakeMetrics) ObserveGroup(index int, duration time.Duration, succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = append(m.groups, index)
}

func (m *fakeMetrics) ObserveBoot(outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boots = append(m.boots, outcome)
}

func group(members ...definition.Definition) dependency.LoadGroup {
	return dependency.LoadGroup{Index: 0, Members: members}
}

// failingLoader fails for the named services and returns the name otherwise.
func failingLoader(failures map[string]error) Loader {
	return func(ctx context.Context, def definition.Definition) (Instance, error) {
		if err, ok := failures[def.Name]; ok {
			return nil, err
		}
		return def.Name, nil
	}
}

func TestExecuteGroup_CriticalAndNonCriticalFailures(t *testing.T) {
	rec := logging.NewRecorder()
	exec := NewExecutor(ExecutorOptions{Sink: rec})

	g := group(
		definition.Definition{Name: "x", Critical: true},
		definition.Definition{Name: "y", Critical: false},
	)
	loader := failingLoader(map[string]error{
		"x": errors.New("x exploded"),
		"y": errors.New("y exploded"),
	})

	loaded, err := exec.ExecuteGroup(context.Background(), g, loader)
	assert.Nil(t, loaded)
	require.Error(t, err)

	var critErr *CriticalLoadError
	require.True(t, errors.As(err, &critErr))
	assert.Equal(t, []string{"x"}, critErr.Names())
	assert.Contains(t, err.Error(), "x: x exploded")
	assert.NotContains(t, err.Error(), "y exploded")

	failures := rec.Find("service failed to load")
	require.Len(t, failures, 2, "both failures are logged")
	assert.Equal(t, "x", failures[0].Fields["service"])
	assert.Equal(t, logging.LevelError, failures[0].Level)
	assert.Equal(t, "y", failures[1].Fields["service"])
	assert.Equal(t, logging.LevelWarn, failures[1].Level)
}

func TestExecuteGroup_NonCriticalFailureOmitted(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{})

	g := group(
		definition.Definition{Name: "x", Critical: true},
		definition.Definition{Name: "y", Critical: false},
	)
	loaded, err := exec.ExecuteGroup(context.Background(), g, failingLoader(map[string]error{
		"y": errors.New("unavailable"),
	}))

	require.NoError(t, err)
	assert.Equal(t, map[string]Instance{"x": "x"}, loaded)
}

func TestExecuteGroup_AllCriticalFailuresListed(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{})
	errA := errors.New("a down")

	g := group(
		definition.Definition{Name: "a", Critical: true},
		definition.Definition{Name: "b", Critical: true},
		definition.Definition{Name: "c", Critical: true},
	)
	_, err := exec.ExecuteGroup(context.Background(), g, failingLoader(map[string]error{
		"a": errA,
		"c": errors.New("c down"),
	}))

	var critErr *CriticalLoadError
	require.True(t, errors.As(err, &critErr))
	assert.Equal(t, []string{"a", "c"}, critErr.Names())
	assert.Equal(t, map[string]Instance{"b": "b"}, critErr.Loaded)
	assert.ErrorIs(t, err, errA)
}

func TestExecuteGroup_FansOutBeforeAwaiting(t *testing.T) {
	const n = 5
	exec := NewExecutor(ExecutorOptions{})

	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	loader := func(ctx context.Context, def definition.Definition) (Instance, error) {
		started.Done()
		select {
		case <-allStarted:
			return def.Name, nil
		case <-time.After(2 * time.Second):
			return nil, errors.New("siblings never started")
		}
	}

	var members []definition.Definition
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		members = append(members, definition.Definition{Name: name, Critical: true})
	}

	loaded, err := exec.ExecuteGroup(context.Background(), group(members...), loader)
	require.NoError(t, err)
	assert.Len(t, loaded, n)
}

func TestExecuteGroup_FailureDoesNotCancelSiblings(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{})

	var slowSawCancel atomic.Bool
	loader := func(ctx context.Context, def definition.Definition) (Instance, error) {
		if def.Name == "fast-fail" {
			return nil, errors.New("immediate failure")
		}
		time.Sleep(30 * time.Millisecond)
		if ctx.Err() != nil {
			slowSawCancel.Store(true)
		}
		return "slow", nil
	}

	g := group(
		definition.Definition{Name: "fast-fail", Critical: true},
		definition.Definition{Name: "slow"},
	)
	_, err := exec.ExecuteGroup(context.Background(), g, loader)

	var critErr *CriticalLoadError
	require.True(t, errors.As(err, &critErr))
	assert.Equal(t, map[string]Instance{"slow": "slow"}, critErr.Loaded, "sibling still settles successfully")
	assert.False(t, slowSawCancel.Load())
}

func TestExecuteGroup_MaxConcurrency(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{MaxConcurrency: 2})

	var inFlight, peak atomic.Int32
	loader := func(ctx context.Context, def definition.Definition) (Instance, error) {
		current := inFlight.Add(1)
		for {
			p := peak.Load()
			if current <= p || peak.CompareAndSwap(p, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return def.Name, nil
	}

	var members []definition.Definition
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		members = append(members, definition.Definition{Name: name})
	}

	loaded, err := exec.ExecuteGroup(context.Background(), group(members...), loader)
	require.NoError(t, err)
	assert.Len(t, loaded, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestExecuteGroup_PanicBecomesFailure(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{})

	loader := func(ctx context.Context, def definition.Definition) (Instance, error) {
		if def.Name == "bad" {
			panic("nil map write")
		}
		return def.Name, nil
	}

	g := group(definition.Definition{Name: "good"}, definition.Definition{Name: "bad"})
	loaded, err := exec.ExecuteGroup(context.Background(), g, loader)
	require.NoError(t, err, "bad is not critical")
	assert.Equal(t, map[string]Instance{"good": "good"}, loaded)

	g = group(definition.Definition{Name: "bad", Critical: true})
	_, err = exec.ExecuteGroup(context.Background(), g, loader)
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "nil map write", panicErr.Value)
}

func TestExecuteGroup_NilInstanceIsFailure(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{})

	loader := func(ctx context.Context, def definition.Definition) (Instance, error) {
		return nil, nil
	}

	_, err := exec.ExecuteGroup(context.Background(), group(definition.Definition{Name: "empty", Critical: true}), loader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader returned no instance")
}

func TestExecuteGroup_GroupTimeoutReachesLoader(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{GroupTimeout: 20 * time.Millisecond})

	loader := func(ctx context.Context, def definition.Definition) (Instance, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := exec.ExecuteGroup(context.Background(), group(definition.Definition{Name: "hung", Critical: true}), loader)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecuteGroup_LoaderGetsCopy(t *testing.T) {
	exec := NewExecutor(ExecutorOptions{})
	def := definition.Definition{Name: "a", Path: "/opt/a", Type: "exec", Description: "d", Dependencies: []string{"ext"}}

	var seen definition.Definition
	loader := func(ctx context.Context, d definition.Definition) (Instance, error) {
		seen = d
		d.Dependencies[0] = "mutated"
		return "ok", nil
	}

	_, err := exec.ExecuteGroup(context.Background(), group(def), loader)
	require.NoError(t, err)
	assert.Equal(t, "/opt/a", seen.Path)
	assert.Equal(t, "exec", seen.Type)
	assert.Equal(t, "d", seen.Description)
	assert.Equal(t, "ext", def.Dependencies[0])
}

func TestExecute_SummaryAndMetrics(t *testing.T) {
	rec := logging.NewRecorder()
	metrics := &fakeMetrics{}
	exec := NewExecutor(ExecutorOptions{Sink: rec, Metrics: metrics})

	g := dependency.LoadGroup{
		Index: 3,
		Members: []definition.Definition{
			{Name: "auth"},
			{Name: "cli"},
			{Name: "webhooks"},
		},
	}
	result, err := exec.Execute(context.Background(), g, failingLoader(map[string]error{
		"webhooks": errors.New("port in use"),
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Index)
	assert.Len(t, result.Failures, 1)
	assert.GreaterOrEqual(t, result.Duration, time.Duration(0))

	started := rec.Find("group started")
	require.Len(t, started, 1)
	assert.Equal(t, []string{"auth", "cli", "webhooks"}, started[0].Fields["services"])
	assert.Equal(t, 3, started[0].Fields["count"])

	completed := rec.Find("group completed")
	require.Len(t, completed, 1)
	assert.Equal(t, 2, completed[0].Fields["succeeded"])
	assert.Equal(t, 1, completed[0].Fields["failed"])
	assert.Equal(t, 3, completed[0].Fields["group"])
	assert.NotEmpty(t, completed[0].Fields["duration"])

	assert.Equal(t, []int{3}, metrics.groups)
}

func TestExecute_SummaryEmittedOnCriticalFailure(t *testing.T) {
	rec := logging.NewRecorder()
	exec := NewExecutor(ExecutorOptions{Sink: rec})

	result, err := exec.Execute(context.Background(), group(definition.Definition{Name: "db", Critical: true}),
		failingLoader(map[string]error{"db": errors.New("refused")}))
	require.Error(t, err)
	require.NotNil(t, result)

	completed := rec.Find("group completed")
	require.Len(t, completed, 1)
	assert.Equal(t, logging.LevelError, completed[0].Level)
}
