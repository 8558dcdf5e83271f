package jobs

import (
	"errors"
	"fmt"
	"sync"

	"image-upscaler/internal/domain"
)

// ErrJobAlreadyRunning is returned when a dispatch starts while another is pending.
var ErrJobAlreadyRunning = errors.New("job already running")

// ErrNoActiveJob is returned when completing a job that is not in flight.
var ErrNoActiveJob = errors.New("no active job")

var jobTransitions = map[domain.JobStatus][]domain.JobStatus{
	domain.JobStatusIdle:       {domain.JobStatusValidating},
	domain.JobStatusValidating: {domain.JobStatusIdle, domain.JobStatusDispatched},
	domain.JobStatusDispatched: {domain.JobStatusDone, domain.JobStatusFailed},
	domain.JobStatusDone:       {domain.JobStatusValidating, domain.JobStatusIdle},
	domain.JobStatusFailed:     {domain.JobStatusValidating, domain.JobStatusIdle},
}

// Manager tracks the single allowed in-flight dispatch and its transitions.
type Manager struct {
	mu      sync.RWMutex
	current domain.Job
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Job{Status: domain.JobStatusIdle},
	}
}

// Begin claims the manager for a new dispatch and moves it to validating.
func (m *Manager) Begin(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isRunning(m.current.Status) {
		return ErrJobAlreadyRunning
	}
	if err := advance(m.current.Status, domain.JobStatusValidating); err != nil {
		return err
	}

	m.current = domain.Job{
		ID:     jobID,
		Status: domain.JobStatusValidating,
	}
	return nil
}

// Reject returns a validating dispatch to idle after a failed precondition.
func (m *Manager) Reject() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := advance(m.current.Status, domain.JobStatusIdle); err != nil {
		return err
	}
	m.current = domain.Job{Status: domain.JobStatusIdle}
	return nil
}

// MarkDispatched records the chosen mode and moves the job to dispatched.
func (m *Manager) MarkDispatched(mode domain.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := advance(m.current.Status, domain.JobStatusDispatched); err != nil {
		return err
	}
	m.current.Mode = mode
	m.current.Command = mode.Command()
	m.current.Status = domain.JobStatusDispatched
	return nil
}

// Finish moves the dispatched job to done or failed.
// An empty jobID matches whichever job is in flight.
func (m *Manager) Finish(jobID string, status domain.JobStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != domain.JobStatusDispatched {
		return ErrNoActiveJob
	}
	if jobID != "" && jobID != m.current.ID {
		return fmt.Errorf("finish job %s: %w", jobID, ErrNoActiveJob)
	}
	if err := advance(m.current.Status, status); err != nil {
		return err
	}
	m.current.Status = status
	return nil
}

// Current returns a snapshot of the current job.
func (m *Manager) Current() domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset clears job metadata and returns manager to idle.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.Job{Status: domain.JobStatusIdle}
}

// IsRunning reports whether a dispatch is validating or awaiting the backend.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return isRunning(m.current.Status)
}

func isRunning(status domain.JobStatus) bool {
	return status == domain.JobStatusValidating || status == domain.JobStatusDispatched
}

func advance(from, to domain.JobStatus) error {
	allowed, ok := jobTransitions[from]
	if !ok {
		return fmt.Errorf("unknown job status %q", from)
	}
	for _, next := range allowed {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("invalid transition: %s -> %s", from, to)
}
