package supervisor

import (
	"sync"
	"time"

	"launchpad/pkg/logging"
)

// Registry holds at most one live backend handle. It is shared by the
// startup goroutine, which sets it, and the exit path, which takes it.
type Registry struct {
	mu      sync.Mutex
	current *Handle
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set stores h and returns the handle it replaced, if any.
func (r *Registry) Set(h *Handle) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.current
	r.current = h
	return prev
}

// Current returns the stored handle without removing it.
func (r *Registry) Current() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Take removes and returns the stored handle.
func (r *Registry) Take() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.current
	r.current = nil
	return h
}

// Shutdown terminates the stored child, if any. The lock is released before
// the child is killed.
func (r *Registry) Shutdown() error {
	h := r.Take()
	if h == nil {
		return nil
	}
	logging.Info("Supervisor", "Terminating backend pid %d after %s", h.Pid(), time.Since(h.StartedAt()).Round(time.Second))
	return h.Terminate()
}
