package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arturoeanton/go-social-front/internal/adapter/store"
	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/port/porttest"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "sid"

type testEnv struct {
	t      *testing.T
	app    *fiber.App
	api    *porttest.Social
	store  *store.MemoryStore
	audits *auditSink
}

type auditEntry struct {
	user, action, resource, resourceID string
}

// auditSink collects audit writes, which arrive asynchronously.
type auditSink struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (s *auditSink) WriteAudit(userName, action, resource, resourceID, _, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{user: userName, action: action, resource: resource, resourceID: resourceID})
	return nil
}

func (s *auditSink) byAction(action string) []auditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []auditEntry
	for _, e := range s.entries {
		if e.action == action {
			out = append(out, e)
		}
	}
	return out
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := porttest.New("ann", "tok")
	mem := store.NewMemoryStore()
	engine, err := view.NewEngine()
	require.NoError(t, err)

	sink := &auditSink{}
	app := fiber.New(FiberConfig(engine))
	app.Use(middleware.AuditMiddleware(sink))
	Mount(app, Deps{
		API:          api,
		Sessions:     session.NewManager(mem, cookieName, false),
		Audit:        sink,
		FeedPageSize: 100,
	})

	require.NoError(t, mem.Save(context.Background(), &domain.Session{ID: "sid-ann", AccessToken: "tok", UserName: "ann"}))
	return &testEnv{t: t, app: app, api: api, store: mem, audits: sink}
}

// do sends a request as the signed-in user unless sid is empty.
func (e *testEnv) do(method, target, sid string, form url.Values) (*http.Response, string) {
	e.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	}
	resp, err := e.app.Test(req)
	require.NoError(e.t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, string(b)
}

func (e *testEnv) get(target string) (*http.Response, string) {
	return e.do(http.MethodGet, target, "sid-ann", nil)
}

func (e *testEnv) post(target string, form url.Values) (*http.Response, string) {
	if form == nil {
		form = url.Values{}
	}
	return e.do(http.MethodPost, target, "sid-ann", form)
}

func TestRequireSession_RedirectsPages(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(http.MethodGet, "/posts/feed", "", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = e.do(http.MethodGet, "/profile", "unknown", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestRequireSession_APIUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.do(http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeed_SearchUsesCachedState(t *testing.T) {
	e := newTestEnv(t)
	e.api.AddPost("bob", "Cats on a roof")
	e.api.AddPost("carl", "Dogs at the park")

	resp, body := e.get("/posts/feed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cats on a roof")
	assert.Contains(t, body, "Dogs at the park")

	resp, body = e.get("/posts/feed/view?search=CAT")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cats on a roof")
	assert.NotContains(t, body, "Dogs at the park")

	_, body = e.get("/posts/feed/view?search=zzz&partial=1")
	assert.Contains(t, body, view.NoPosts)
	assert.NotContains(t, body, "<html")

	assert.Equal(t, 1, e.api.CallCount("ListPosts"))
	assert.Equal(t, 1, e.api.CallCount("ListFollowing"))
}

func TestFeed_FollowingTab(t *testing.T) {
	e := newTestEnv(t)
	e.api.AddPost("bob", "From bob")
	e.api.AddPost("carl", "From carl")
	e.api.Following["ann"] = map[string]bool{"bob": true}

	_, body := e.get("/posts/feed?filter=following")
	assert.Contains(t, body, "From bob")
	assert.NotContains(t, body, "From carl")

	e.api.Following["ann"] = nil
	_, body = e.get("/posts/feed?filter=following")
	assert.Contains(t, body, view.NoFollowingPosts)
}

func TestFeed_ViewWithoutCacheRedirects(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.get("/posts/feed/view?search=x")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts/feed?search=x", resp.Header.Get("Location"))
}

func TestFeed_ExpiredTokenClearsSession(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.store.Save(context.Background(), &domain.Session{ID: "sid-stale", AccessToken: "stale", UserName: "ann"}))

	resp, _ := e.do(http.MethodGet, "/posts/feed", "sid-stale", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, err := e.store.Get(context.Background(), "sid-stale")
	assert.ErrorIs(t, err, port.ErrSessionNotFound)
}

func TestFeedAPI_JSON(t *testing.T) {
	e := newTestEnv(t)
	e.api.AddPost("bob", "Cats")
	e.api.AddPost("bob", "Dogs")

	resp, body := e.get("/api/v1/feed?search=dog")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Mode  string `json:"mode"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "all", out.Mode)
	assert.Equal(t, 1, out.Count)
}

func TestPost_Show(t *testing.T) {
	e := newTestEnv(t)
	mine := e.api.AddPost("ann", "Mine")
	theirs := e.api.AddPost("bob", "Theirs")

	_, body := e.get(view.PostHref(mine))
	assert.Contains(t, body, "Edit")
	assert.NotContains(t, body, `class="inline follow"`)

	_, body = e.get(view.PostHref(theirs))
	assert.Contains(t, body, `class="inline follow"`)
	assert.Contains(t, body, ">Follow<")
	assert.NotContains(t, body, "/posts/edit?id=")
}

func TestPost_ShowMissing(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.get("/posts/post")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, msgNoPostID)

	resp, body = e.get("/posts/post?id=424242")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, view.PostNotFound)
}

func TestPost_Create(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post("/posts/create", url.Values{"title": {"  "}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, msgTitleRequired)
	assert.Zero(t, e.api.CallCount("CreatePost"))

	resp, _ = e.post("/posts/create", url.Values{"title": {"Hello"}, "mediaUrl": {"https://x.test/a.png"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts/feed?notice=created", resp.Header.Get("Location"))
	require.Len(t, e.api.Posts, 1)
	assert.Equal(t, "Hello", e.api.Posts[0].Media.Alt)
}

func TestPost_EditOwnership(t *testing.T) {
	e := newTestEnv(t)
	mine := e.api.AddPost("ann", "Mine")
	theirs := e.api.AddPost("bob", "Theirs")

	resp, body := e.get("/posts/edit?id=" + itoa(theirs))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, msgNoPermission)
	assert.NotContains(t, body, `name="title"`)

	resp, body = e.get("/posts/edit?id=" + itoa(mine))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Mine"`)

	resp, _ = e.post("/posts/edit?id="+itoa(mine), url.Values{"title": {"Renamed"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, view.PostHref(mine)+"&notice=updated", resp.Header.Get("Location"))

	resp, _ = e.post("/posts/edit?id="+itoa(theirs), url.Values{"title": {"Hijack"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, e.api.CallCount("UpdatePost"))
}

func TestPost_EditBadID(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.get("/posts/edit?id=abc")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, msgPostNotFound)
	assert.NotContains(t, body, `name="title"`)

	resp, body = e.post("/posts/edit?id=abc", url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, msgPostNotFound)

	resp, body = e.get("/posts/edit")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, msgNoPostID)
	assert.Zero(t, e.api.CallCount("UpdatePost"))
}

func TestPost_Delete(t *testing.T) {
	e := newTestEnv(t)
	mine := e.api.AddPost("ann", "Mine")
	theirs := e.api.AddPost("bob", "Theirs")

	resp, _ := e.post("/posts/delete?id="+itoa(theirs), nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "notice=delete_failed")

	resp, _ = e.post("/posts/delete?id="+itoa(mine), nil)
	assert.Equal(t, "/posts/feed?notice=deleted", resp.Header.Get("Location"))
	assert.Len(t, e.api.Posts, 1)
}

func TestFollow_JSONToggles(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.post("/api/v1/profiles/bob/follow", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"state":"following"`)
	assert.True(t, e.api.Following["ann"]["bob"])

	_, body = e.post("/api/v1/profiles/bob/follow", nil)
	assert.Contains(t, body, `"state":"not_following"`)
	assert.False(t, e.api.Following["ann"]["bob"])
}

func TestFollow_TargetsKeptAcrossRequests(t *testing.T) {
	e := newTestEnv(t)

	// Same-length names would share a reused request buffer if the
	// registry kept the raw route param.
	_, body := e.post("/api/v1/profiles/alice/follow", nil)
	assert.Contains(t, body, `"state":"following"`)
	_, body = e.post("/api/v1/profiles/zzzzz/follow", nil)
	assert.Contains(t, body, `"state":"following"`)

	assert.Equal(t, 2, e.api.CallCount("Follow"))
	assert.Zero(t, e.api.CallCount("Unfollow"))
	assert.True(t, e.api.Following["ann"]["alice"])
	assert.True(t, e.api.Following["ann"]["zzzzz"])

	assert.Eventually(t, func() bool { return len(e.audits.byAction(domain.AuditActionFollow)) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []auditEntry{
		{user: "ann", action: domain.AuditActionFollow, resource: "profile", resourceID: "alice"},
		{user: "ann", action: domain.AuditActionFollow, resource: "profile", resourceID: "zzzzz"},
	}, e.audits.byAction(domain.AuditActionFollow))

	assert.Eventually(t, func() bool { return len(e.audits.byAction(domain.AuditActionRequest)) >= 2 }, 2*time.Second, 10*time.Millisecond)
	var paths []string
	for _, r := range e.audits.byAction(domain.AuditActionRequest) {
		paths = append(paths, r.resourceID)
	}
	assert.Contains(t, paths, "/api/v1/profiles/alice/follow")
	assert.Contains(t, paths, "/api/v1/profiles/zzzzz/follow")
}

func TestFollow_SelfIsConflict(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.post("/api/v1/profiles/ann/follow", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Zero(t, e.api.CallCount("Follow"))
}

func TestFollow_FormRedirectsBack(t *testing.T) {
	e := newTestEnv(t)
	id := e.api.AddPost("Bob Ray", "Theirs")

	resp, _ := e.post("/profiles/Bob%20Ray/follow", url.Values{"return": {view.PostHref(id)}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, view.PostHref(id), resp.Header.Get("Location"))
	assert.True(t, e.api.Following["ann"]["Bob Ray"])

	resp, _ = e.post("/profiles/bob/follow", url.Values{"return": {"//evil.test"}})
	assert.Equal(t, "/posts/feed", resp.Header.Get("Location"))
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(http.MethodPost, "/register", "", url.Values{"name": {"bob"}, "email": {"bob@stud.noroff.no"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?registered=1", resp.Header.Get("Location"))

	_, body := e.do(http.MethodGet, "/login?registered=1", "", nil)
	assert.Contains(t, body, msgRegistered)

	resp, body = e.do(http.MethodPost, "/login", "", url.Values{"email": {"bob@stud.noroff.no"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Login failed")

	resp, _ = e.do(http.MethodPost, "/login", "", url.Values{"email": {"bob@stud.noroff.no"}, "password": {"secret123"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts/feed", resp.Header.Get("Location"))

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)
	sess, err := e.store.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "bob", sess.UserName)

	resp, _ = e.do(http.MethodPost, "/logout", sid, url.Values{})
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, err = e.store.Get(context.Background(), sid)
	assert.ErrorIs(t, err, port.ErrSessionNotFound)
}

func TestProfile_Me(t *testing.T) {
	e := newTestEnv(t)
	e.api.Profiles["ann"].Bio = "Hello there"
	e.api.AddPost("ann", "My only post")

	resp, body := e.get("/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello there")
	assert.Contains(t, body, "My only post")
}

func TestProfile_Author(t *testing.T) {
	e := newTestEnv(t)
	e.api.AddPost("bob", "Bob writes")

	resp, body := e.get("/posts/author")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, msgNoAuthorName)

	_, body = e.get("/posts/author?name=bob")
	assert.Contains(t, body, "Bob writes")

	_, body = e.get("/posts/author?name=nobody")
	assert.Contains(t, body, view.NoAuthorPosts)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
