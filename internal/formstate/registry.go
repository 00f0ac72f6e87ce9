package formstate

import (
	"sync"
	"time"

	"alumni-form/internal/models"
)

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Registry maps visitor IDs to their form controllers.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	opts    Options
	now     func() time.Time
}

// NewRegistry creates a registry that builds controllers with opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		opts:    opts,
		now:     time.Now,
	}
}

// GetOrCreate returns the controller for visitorID, creating one if needed.
// restore is consulted only for new controllers; a nil record means no draft.
func (r *Registry) GetOrCreate(visitorID string, restore func() *models.FormRecord) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[visitorID]; ok {
		e.lastSeen = r.now()
		return e.ctrl
	}

	ctrl := NewController(r.opts)
	if restore != nil {
		if draft := restore(); draft != nil {
			ctrl.Restore(*draft)
		}
	}
	r.entries[visitorID] = &entry{ctrl: ctrl, lastSeen: r.now()}
	return ctrl
}

// Sweep drops controllers that have not been used for longer than maxIdle and
// returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			e.ctrl.Close()
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
