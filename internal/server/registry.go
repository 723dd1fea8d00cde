package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
)

// Run tracks one generation request through the HTTP surface.
type Run struct {
	ID         string                      `json:"id"`
	Status     orchestrator.Status         `json:"status"`
	AcceptedAt time.Time                   `json:"accepted_at"`
	Result     *orchestrator.ProcessResult `json:"result,omitempty"`
}

// Registry is the in-memory run index. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run)}
}

// Accept records a new run in the running state.
func (r *Registry) Accept(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runs[id]; exists {
		return fmt.Errorf("run %s already exists", id)
	}
	r.runs[id] = &Run{
		ID:         id,
		Status:     orchestrator.StatusRunning,
		AcceptedAt: time.Now().UTC(),
	}
	return nil
}

// Complete stores the terminal result for a run.
func (r *Registry) Complete(id string, result orchestrator.ProcessResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return
	}
	run.Status = result.Status
	run.Result = &result
}

// Get returns a copy of the run.
func (r *Registry) Get(id string) (Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// Len reports how many runs the registry holds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}
