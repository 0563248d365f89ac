package export

import (
	"errors"
	"sync"
)

// ErrHostClosed is returned when attaching to a closed host.
var ErrHostClosed = errors.New("render host is closed")

// Host is the document tree render targets are attached to while an export
// runs. It is safe for concurrent use.
type Host struct {
	mu      sync.Mutex
	targets map[string]*RenderTarget
	closed  bool
}

// NewHost returns an empty host.
func NewHost() *Host {
	return &Host{targets: make(map[string]*RenderTarget)}
}

// Attach adds t to the host.
func (h *Host) Attach(t *RenderTarget) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHostClosed
	}
	h.targets[t.ID] = t
	return nil
}

// Detach removes the target with id. It reports whether it was attached.
func (h *Host) Detach(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.targets[id]; !ok {
		return false
	}
	delete(h.targets, id)
	return true
}

// Contains reports whether a target with id is attached.
func (h *Host) Contains(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.targets[id]
	return ok
}

// Len returns the number of attached targets.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.targets)
}

// Close refuses further attachments. Attached targets stay until detached.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}
