package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry hands out one value per session ID and expires idle sessions.
type Registry[T any] struct {
	mu       sync.Mutex
	sessions map[string]*entry[T]
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(T)
}

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// NewRegistry creates a registry whose sessions expire after ttl without
// use. A zero ttl never expires.
func NewRegistry[T any](ttl time.Duration) *Registry[T] {
	return &Registry[T]{sessions: make(map[string]*entry[T]), ttl: ttl, now: time.Now}
}

// OnEvict sets fn to be called with every value removed by Delete or
// Expire, after the registry lock is released.
func (r *Registry[T]) OnEvict(fn func(T)) {
	r.mu.Lock()
	r.onEvict = fn
	r.mu.Unlock()
}

// Create stores v under a fresh session ID.
func (r *Registry[T]) Create(v T) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &entry[T]{value: v, lastSeen: r.now()}
	r.mu.Unlock()
	return id
}

// Get returns the session's value and refreshes its idle timer.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = r.now()
	return e.value, true
}

func (r *Registry[T]) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	evict := r.onEvict
	r.mu.Unlock()

	if ok && evict != nil {
		evict(e.value)
	}
	return ok
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Expire removes sessions idle for longer than the ttl and returns how
// many were removed.
func (r *Registry[T]) Expire() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var expired []T
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			expired = append(expired, e.value)
		}
	}
	evict := r.onEvict
	r.mu.Unlock()

	if evict != nil {
		for _, v := range expired {
			evict(v)
		}
	}
	return len(expired)
}
