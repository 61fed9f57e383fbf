package follow

import (
	"slices"
	"strings"
	"sync"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// DefaultMaxSessions bounds how many sessions the registry tracks at once.
const DefaultMaxSessions = 1024

// Registry keeps one Toggle per (session, target) so repeated or concurrent
// submissions from the same session share the in-flight guard.
type Registry struct {
	api port.FollowAPI

	mu      sync.Mutex
	toggles map[string]map[string]*Toggle
	order   []string // session ids, oldest first
	limit   int
}

// NewRegistry creates an empty registry holding at most DefaultMaxSessions
// sessions.
func NewRegistry(api port.FollowAPI) *Registry {
	return &Registry{
		api:     api,
		toggles: make(map[string]map[string]*Toggle),
		limit:   DefaultMaxSessions,
	}
}

// Get returns the toggle for sess and target, creating it on first use.
func (r *Registry) Get(sess *domain.Session, target string) *Toggle {
	r.mu.Lock()
	defer r.mu.Unlock()

	bySession, ok := r.toggles[sess.ID]
	if !ok {
		id := strings.Clone(sess.ID)
		bySession = make(map[string]*Toggle)
		r.toggles[id] = bySession
		r.order = append(r.order, id)
		r.evict()
	}
	t, ok := bySession[target]
	if !ok {
		target = strings.Clone(target)
		t = NewToggle(r.api, sess, target)
		bySession[target] = t
	}
	return t
}

// DropSession forgets every toggle of a session.
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.toggles[sessionID]; !ok {
		return
	}
	delete(r.toggles, sessionID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == sessionID })
}

// Len reports how many sessions are tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toggles)
}

// evict drops the oldest sessions until the limit holds. Caller holds mu.
func (r *Registry) evict() {
	if r.limit <= 0 {
		return
	}
	for len(r.order) > r.limit {
		delete(r.toggles, r.order[0])
		r.order = r.order[1:]
	}
}
