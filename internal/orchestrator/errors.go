package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBootInProgress is returned when Boot is called while a boot is running.
	ErrBootInProgress = errors.New("boot already in progress")

	// ErrAlreadyBooted is returned when Boot is called after a successful boot.
	ErrAlreadyBooted = errors.New("services already booted")
)

// CriticalLoadError is returned when at least one critical member of a load
// group failed. Failures holds every failed critical member of the group,
// never the non-critical ones.
type CriticalLoadError struct {
	Group    int
	Failures []LoadFailure

	// Loaded holds the members of the failing group that did load, so the
	// caller can shut them down or inspect them after the fact.
	Loaded map[string]Instance
}

func (e *CriticalLoadError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Name, f.Err)
	}
	return fmt.Sprintf("critical services failed to load in group %d: %s", e.Group, strings.Join(parts, "; "))
}

// Names returns the failed critical service names.
func (e *CriticalLoadError) Names() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Name
	}
	return names
}

// Unwrap exposes the underlying loader errors to errors.Is and errors.As.
func (e *CriticalLoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// PanicError wraps a value recovered from a panicking loader.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("loader panicked: %v", e.Value)
}
