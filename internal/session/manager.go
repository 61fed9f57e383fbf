// Package session ties a browser cookie to a stored upstream access token.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Manager issues, loads and clears sessions.
type Manager struct {
	store  port.SessionStore
	cookie string
	secure bool

	mu      sync.RWMutex
	onClear []func(id string)
}

// NewManager creates a manager storing sessions in store under cookie name.
func NewManager(store port.SessionStore, cookie string, secure bool) *Manager {
	return &Manager{store: store, cookie: cookie, secure: secure}
}

// OnClear registers fn to run with the id of every cleared session.
func (m *Manager) OnClear(fn func(id string)) {
	m.mu.Lock()
	m.onClear = append(m.onClear, fn)
	m.mu.Unlock()
}

// Start persists a session for a successful login and sets its cookie.
func (m *Manager) Start(c fiber.Ctx, res *domain.LoginResult) (*domain.Session, error) {
	if res == nil || res.AccessToken == "" {
		return nil, errors.New("login result has no access token")
	}
	sess := &domain.Session{
		ID:          uuid.NewString(),
		AccessToken: res.AccessToken,
		UserName:    res.Name,
		UserEmail:   res.Email,
	}
	if err := m.store.Save(c.Context(), sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie,
		Value:    sess.ID,
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sess, nil
}

// Load returns the request's session. A missing cookie, unknown id or a
// session without a token all yield port.ErrSessionNotFound.
func (m *Manager) Load(c fiber.Ctx) (*domain.Session, error) {
	id := c.Cookies(m.cookie)
	if id == "" {
		return nil, port.ErrSessionNotFound
	}
	sess, err := m.store.Get(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, port.ErrSessionNotFound
	}
	sess.ID = strings.Clone(id)
	return sess, nil
}

// Clear removes the request's session from the store and the browser.
// It is safe to call without a session.
func (m *Manager) Clear(c fiber.Ctx) error {
	id := c.Cookies(m.cookie)
	c.ClearCookie(m.cookie)
	if id == "" {
		return nil
	}
	m.mu.RLock()
	hooks := m.onClear
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn(id)
	}
	return m.store.Delete(c.Context(), id)
}
