package services

import "sync"

// ServiceState is the lifecycle state of a loaded service.
type ServiceState string

const (
	StateUnknown  ServiceState = "Unknown"
	StateStarting ServiceState = "Starting"
	StateRunning  ServiceState = "Running"
	StateStopping ServiceState = "Stopping"
	StateStopped  ServiceState = "Stopped"
	StateFailed   ServiceState = "Failed"
)

// StateChangeCallback is called when a service's state changes
type StateChangeCallback func(name string, oldState, newState ServiceState, err error)

// BaseService provides the state bookkeeping shared by the built-in services.
type BaseService struct {
	mu            sync.RWMutex
	name          string
	serviceType   string
	dependencies  []string
	state         ServiceState
	lastError     error
	stateChangeCb StateChangeCallback
}

// NewBaseService creates a new base service
func NewBaseService(name, serviceType string, dependencies []string) *BaseService {
	return &BaseService{
		name:         name,
		serviceType:  serviceType,
		dependencies: append([]string(nil), dependencies...),
		state:        StateUnknown,
	}
}

// GetName returns the service name
func (b *BaseService) GetName() string {
	return b.name
}

// GetType returns the service type
func (b *BaseService) GetType() string {
	return b.serviceType
}

// GetDependencies returns a copy of the service dependencies
func (b *BaseService) GetDependencies() []string {
	return append([]string(nil), b.dependencies...)
}

// GetState returns the current state
func (b *BaseService) GetState() ServiceState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// GetLastError returns the last error
func (b *BaseService) GetLastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError
}

// SetStateChangeCallback sets the state change callback
func (b *BaseService) SetStateChangeCallback(callback StateChangeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stateChangeCb = callback
}

// UpdateState updates the service state and notifies the callback
func (b *BaseService) UpdateState(newState ServiceState, err error) {
	b.mu.Lock()
	oldState := b.state
	b.state = newState
	b.lastError = err
	callback := b.stateChangeCb
	b.mu.Unlock()

	// Call the callback outside of the lock to avoid deadlocks
	if callback != nil && oldState != newState {
		callback(b.name, oldState, newState, err)
	}
}
