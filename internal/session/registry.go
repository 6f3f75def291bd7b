package session

import (
	"context"
	"sync"
	"time"

	"vocalcart/internal/common/logger"
	"vocalcart/internal/common/metrics"

	"github.com/google/uuid"
)

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

type entry struct {
	mu     sync.Mutex
	state  *State
	loaded bool
}

// Registry owns every live session. The map lock is held only to find or
// create an entry; each entry has its own lock for the state.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	logSize int
	store   CartStore
	logger  logger.Logger
	now     func() time.Time
}

// NewRegistry builds an empty registry. store may be nil; when set, a new
// session starts with its persisted cart.
func NewRegistry(logSize int, store CartStore, log logger.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		logSize: logSize,
		store:   store,
		logger:  logger.ForComponent(log, "session.registry"),
		now:     time.Now,
	}
}

func (r *Registry) entry(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry{state: newState(r.logSize, r.now())}
		r.entries[id] = e
		metrics.SessionsActive.Set(float64(len(r.entries)))
		r.logger.Debug("session created", map[string]interface{}{"sessionId": id})
	}
	return e
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return e, ok
}

// with runs fn with the session locked, creating the session on first use.
func (r *Registry) with(ctx context.Context, id string, fn func(st *State)) {
	e := r.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		r.restoreCart(ctx, id, e.state)
		e.loaded = true
	}
	e.state.lastActive = r.now()
	fn(e.state)
}

func (r *Registry) restoreCart(ctx context.Context, id string, st *State) {
	if r.store == nil {
		return
	}
	snap, err := r.store.LoadCart(ctx, id)
	if err != nil {
		r.logger.Warn("failed to load persisted cart", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
		return
	}
	if snap != nil {
		st.cart.Restore(*snap)
		r.logger.Info("persisted cart restored", map[string]interface{}{
			"sessionId": id,
			"lines":     st.cart.Len(),
		})
	}
}

// Remove drops a session. It reports whether the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	metrics.SessionsActive.Set(float64(len(r.entries)))
	return true
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// EvictIdle removes sessions untouched for longer than maxIdle. Sessions busy
// with a command are skipped.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.state.lastActive.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.entries, id)
			evicted++
		}
	}
	metrics.SessionsActive.Set(float64(len(r.entries)))
	return evicted
}

// RunEviction evicts idle sessions every interval until ctx is done.
func (r *Registry) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(maxIdle); n > 0 {
				r.logger.Info("idle sessions evicted", map[string]interface{}{
					"evicted":   n,
					"remaining": r.Len(),
				})
			}
		}
	}
}
