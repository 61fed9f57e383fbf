package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// ErrSessionExpired is returned by Load when the posts fetch is rejected with
// 401 or 403. The caller must clear the session and send the user to login.
var ErrSessionExpired = errors.New("session expired")

// Source is what the controller needs from the social API.
type Source interface {
	ListPosts(ctx context.Context, token string, limit int) ([]domain.Post, error)
	ListFollowing(ctx context.Context, token, name string) ([]domain.Profile, error)
}

// Controller loads one session's feed and serves filtered views over it.
// Only Load writes the cached lists; views read them.
type Controller struct {
	src      Source
	session  domain.Session
	pageSize int

	mu        sync.RWMutex
	posts     []domain.Post
	following FollowingSet
}

// NewController creates a controller for sess.
func NewController(src Source, sess *domain.Session, pageSize int) *Controller {
	return &Controller{
		src:       src,
		session:   *sess,
		pageSize:  pageSize,
		posts:     []domain.Post{},
		following: FollowingSet{},
	}
}

// Load fetches the posts and the following list concurrently and replaces the
// cached state once both are done. Either fetch failing degrades to an empty
// list, except a rejected posts fetch, which returns ErrSessionExpired.
func (c *Controller) Load(ctx context.Context) error {
	var (
		posts     []domain.Post
		following []domain.Profile
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := c.src.ListPosts(gctx, c.session.AccessToken, c.pageSize)
		if err != nil {
			if errors.Is(err, port.ErrUnauthorized) {
				return fmt.Errorf("%w: %v", ErrSessionExpired, err)
			}
			slog.Error("failed to fetch posts", "error", err)
			return nil
		}
		posts = p
		return nil
	})

	g.Go(func() error {
		if c.session.UserName == "" {
			slog.Warn("no user name in session, cannot fetch following")
			return nil
		}
		f, err := c.src.ListFollowing(gctx, c.session.AccessToken, c.session.UserName)
		if err != nil {
			slog.Error("failed to fetch following profiles", "user", c.session.UserName, "error", err)
			return nil
		}
		following = f
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if posts == nil {
		posts = []domain.Post{}
	}

	c.mu.Lock()
	c.posts = posts
	c.following = NewFollowingSet(following)
	c.mu.Unlock()

	slog.Debug("feed loaded", "user", c.session.UserName, "posts", len(posts), "following", len(following))
	return nil
}

// View recomputes a filtered view over the cached state. No network calls.
func (c *Controller) View(mode Mode, query string) []domain.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View(c.posts, c.following, mode, query)
}

// Posts returns the cached post list.
func (c *Controller) Posts() []domain.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.posts
}

// Following returns the cached following set.
func (c *Controller) Following() FollowingSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.following
}
