package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/arturoeanton/go-social-front/internal/adapter/store"
	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/feed"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/port/porttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*app, *porttest.Social, *bytes.Buffer) {
	t.Helper()
	api := porttest.New("ann", "tok")
	api.Passwords["ann@stud.noroff.no"] = "pw"
	api.Emails["ann@stud.noroff.no"] = "ann"
	out := &bytes.Buffer{}
	return &app{
		api:      api,
		sessions: store.NewFileStore(filepath.Join(t.TempDir(), "session.json")),
		pageSize: 100,
		out:      out,
	}, api, out
}

func TestCLI_NotLoggedIn(t *testing.T) {
	a, _, _ := newTestApp(t)
	err := a.feed(context.Background(), feed.ModeAll, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestCLI_LoginAndFeed(t *testing.T) {
	a, api, out := newTestApp(t)
	ctx := context.Background()
	api.AddPost("bob", "Cats")
	api.AddPost("carl", "Dogs")

	require.NoError(t, a.login(ctx, "ann@stud.noroff.no", "pw"))
	assert.Contains(t, out.String(), "Logged in as ann.")

	out.Reset()
	require.NoError(t, a.feed(ctx, feed.ModeAll, "cat"))
	assert.Contains(t, out.String(), "Cats")
	assert.NotContains(t, out.String(), "Dogs")

	out.Reset()
	require.NoError(t, a.feed(ctx, feed.ModeFollowing, ""))
	assert.Contains(t, out.String(), "No posts from profiles you follow yet.")
}

func TestCLI_LoginFailure(t *testing.T) {
	a, _, _ := newTestApp(t)
	err := a.login(context.Background(), "ann@stud.noroff.no", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestCLI_FollowUnfollow(t *testing.T) {
	a, api, out := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.sessions.Save(ctx, &domain.Session{AccessToken: "tok", UserName: "ann"}))

	require.NoError(t, a.setFollowing(ctx, "bob", true))
	assert.True(t, api.Following["ann"]["bob"])
	assert.Contains(t, out.String(), "Now following bob.")

	out.Reset()
	require.NoError(t, a.setFollowing(ctx, "bob", true))
	assert.Contains(t, out.String(), "Already following bob.")
	assert.Equal(t, 1, api.CallCount("Follow"))

	require.NoError(t, a.setFollowing(ctx, "bob", false))
	assert.False(t, api.Following["ann"]["bob"])

	assert.Error(t, a.setFollowing(ctx, "ann", true))
}

func TestCLI_ExpiredSessionIsDropped(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.sessions.Save(ctx, &domain.Session{AccessToken: "stale", UserName: "ann"}))

	err := a.feed(ctx, feed.ModeAll, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")

	_, err = a.sessions.Get(ctx, cliSessionID)
	assert.ErrorIs(t, err, port.ErrSessionNotFound)
}
