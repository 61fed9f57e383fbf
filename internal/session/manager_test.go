package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arturoeanton/go-social-front/internal/adapter/store"
	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(m *Manager) *fiber.App {
	app := fiber.New()
	app.Post("/start", func(c fiber.Ctx) error {
		s, err := m.Start(c, &domain.LoginResult{Name: "ann", Email: "ann@stud.noroff.no", AccessToken: "tok"})
		if err != nil {
			return err
		}
		return c.SendString(s.ID)
	})
	app.Get("/who", func(c fiber.Ctx) error {
		s, err := m.Load(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(s.UserName)
	})
	app.Post("/clear", func(c fiber.Ctx) error {
		return m.Clear(c)
	})
	return app
}

func TestManager_Lifecycle(t *testing.T) {
	mem := store.NewMemoryStore()
	m := NewManager(mem, "sid", true)

	var cleared []string
	m.OnClear(func(id string) { cleared = append(cleared, id) })

	app := newApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/start", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "sid", ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: ck.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/clear", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: ck.Value})
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, []string{ck.Value}, cleared)

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: ck.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestManager_LoadWithoutCookie(t *testing.T) {
	app := newApp(NewManager(store.NewMemoryStore(), "sid", false))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/who", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestManager_ClearWithoutSession(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), "sid", false)
	called := false
	m.OnClear(func(string) { called = true })

	resp, err := newApp(m).Test(httptest.NewRequest(http.MethodPost, "/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, called)
}
