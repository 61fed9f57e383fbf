package feed

import (
	"slices"
	"strings"
	"sync"
)

// DefaultCacheSize bounds how many sessions keep a cached controller.
const DefaultCacheSize = 1024

// Cache holds the last loaded controller per session id, so filter and search
// requests can be answered without refetching. Once full, the session that
// was stored first is evicted.
type Cache struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
	order       []string
	limit       int
}

// NewCache creates an empty cache holding at most DefaultCacheSize sessions.
func NewCache() *Cache {
	return &Cache{controllers: make(map[string]*Controller), limit: DefaultCacheSize}
}

// Get returns the controller cached for sessionID.
func (c *Cache) Get(sessionID string) (*Controller, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ctrl, ok := c.controllers[sessionID]
	return ctrl, ok
}

// Put replaces the controller cached for sessionID.
func (c *Cache) Put(sessionID string, ctrl *Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.controllers[sessionID]; ok {
		c.controllers[sessionID] = ctrl
		return
	}
	sessionID = strings.Clone(sessionID)
	c.controllers[sessionID] = ctrl
	c.order = append(c.order, sessionID)
	for c.limit > 0 && len(c.order) > c.limit {
		delete(c.controllers, c.order[0])
		c.order = c.order[1:]
	}
}

// Drop forgets sessionID. Called on logout and session teardown.
func (c *Cache) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.controllers[sessionID]; !ok {
		return
	}
	delete(c.controllers, sessionID)
	c.order = slices.DeleteFunc(c.order, func(id string) bool { return id == sessionID })
}

// Len reports how many sessions are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.controllers)
}
