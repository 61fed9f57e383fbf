package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arturoeanton/go-social-front/internal/adapter/store"
	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditRecord struct {
	user, action, resourceID, userAgent string
}

type chanWriter chan auditRecord

func (w chanWriter) WriteAudit(userName, action, _, resourceID, _, _, userAgent string) error {
	w <- auditRecord{user: userName, action: action, resourceID: resourceID, userAgent: userAgent}
	return nil
}

// gatedWriter holds every write until gate is closed.
type gatedWriter struct {
	gate chan struct{}
	out  chanWriter
}

func (w gatedWriter) WriteAudit(userName, action, resource, resourceID, details, ip, userAgent string) error {
	<-w.gate
	return w.out.WriteAudit(userName, action, resource, resourceID, details, ip, userAgent)
}

func newApp(t *testing.T, w AuditWriter) *fiber.App {
	t.Helper()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Save(context.Background(), &domain.Session{ID: "s1", AccessToken: "tok", UserName: "ann"}))
	mgr := session.NewManager(mem, "sid", false)

	app := fiber.New()
	app.Use(AuditMiddleware(w))
	app.Get("/open", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/page", RequireSession(mgr), func(c fiber.Ctx) error {
		return c.SendString(GetSession(c).UserName)
	})
	app.Get("/api/v1/thing", RequireSession(mgr), func(c fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestRequireSession(t *testing.T) {
	app := newApp(t, LogAuditWriter{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuditMiddleware_RecordsUser(t *testing.T) {
	w := make(chanWriter, 2)
	app := newApp(t, w)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	rec := waitRecord(t, w)
	assert.Equal(t, "anonymous", rec.user)
	assert.Equal(t, domain.AuditActionRequest, rec.action)
	assert.Equal(t, "/open", rec.resourceID)

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "ann", waitRecord(t, w).user)
}

func TestAuditMiddleware_RecordOutlivesRequest(t *testing.T) {
	w := gatedWriter{gate: make(chan struct{}), out: make(chanWriter, 2)}
	app := fiber.New()
	app.Use(AuditMiddleware(w))
	app.Get("/:name", func(c fiber.Ctx) error { return c.SendString("ok") })

	for _, name := range []string{"alice", "zzzzz"} {
		req := httptest.NewRequest(http.MethodGet, "/"+name, nil)
		req.Header.Set("User-Agent", "agent-"+name)
		_, err := app.Test(req)
		require.NoError(t, err)
	}
	close(w.gate)

	got := []auditRecord{waitRecord(t, w.out), waitRecord(t, w.out)}
	assert.ElementsMatch(t, []auditRecord{
		{user: "anonymous", action: domain.AuditActionRequest, resourceID: "/alice", userAgent: "agent-alice"},
		{user: "anonymous", action: domain.AuditActionRequest, resourceID: "/zzzzz", userAgent: "agent-zzzzz"},
	}, got)
}

func waitRecord(t *testing.T, w chanWriter) auditRecord {
	t.Helper()
	select {
	case r := <-w:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no audit record written")
		return auditRecord{}
	}
}
