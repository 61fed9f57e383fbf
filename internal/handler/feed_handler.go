package handler

import (
	"errors"
	"net/url"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/feed"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
)

// FeedHandler serves the feed page and views recomputed from cached state.
type FeedHandler struct {
	src      feed.Source
	cache    *feed.Cache
	sessions *session.Manager
	pageSize int
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(src feed.Source, cache *feed.Cache, sessions *session.Manager, pageSize int) *FeedHandler {
	return &FeedHandler{src: src, cache: cache, sessions: sessions, pageSize: pageSize}
}

// Register sets up page routes under the protected /posts group.
func (h *FeedHandler) Register(posts fiber.Router) {
	posts.Get("/feed", h.Page)
	posts.Get("/feed/view", h.View)
}

// RegisterAPI sets up JSON routes under the protected /api/v1 group.
func (h *FeedHandler) RegisterAPI(api fiber.Router) {
	api.Get("/feed", h.JSON)
}

// Page loads the feed afresh, replacing any cached state.
func (h *FeedHandler) Page(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	ctrl, err := h.load(c, sess)
	if err != nil {
		if errors.Is(err, feed.ErrSessionExpired) {
			return expire(c, h.sessions)
		}
		return err
	}
	return h.render(c, ctrl, feed.ParseMode(c.Query("filter")), c.Query("search"))
}

// View recomputes the feed from cached state. With ?partial=1 only the
// list fragment is rendered.
func (h *FeedHandler) View(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	ctrl, ok := h.cache.Get(sess.ID)
	if !ok {
		q := url.Values{}
		if s := c.Query("search"); s != "" {
			q.Set("search", s)
		}
		if f := c.Query("filter"); f != "" {
			q.Set("filter", f)
		}
		to := "/posts/feed"
		if len(q) > 0 {
			to += "?" + q.Encode()
		}
		return seeOther(c, to)
	}

	mode := feed.ParseMode(c.Query("filter"))
	query := c.Query("search")
	if c.Query("partial") != "" {
		return c.Render("feed_items", view.Feed(ctrl.View(mode, query), mode, query))
	}
	return h.render(c, ctrl, mode, query)
}

// JSON returns the current view as cards. State is loaded on first use and
// reused afterwards.
func (h *FeedHandler) JSON(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	ctrl, ok := h.cache.Get(sess.ID)
	if !ok {
		var err error
		if ctrl, err = h.load(c, sess); err != nil {
			if errors.Is(err, feed.ErrSessionExpired) {
				return expire(c, h.sessions)
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
	}

	mode := feed.ParseMode(c.Query("filter"))
	query := c.Query("search")
	v := view.Feed(ctrl.View(mode, query), mode, query)
	return c.JSON(fiber.Map{
		"mode":  v.Mode,
		"query": v.Query,
		"count": len(v.Cards),
		"posts": v.Cards,
		"empty": v.Empty,
	})
}

func (h *FeedHandler) load(c fiber.Ctx, sess *domain.Session) (*feed.Controller, error) {
	ctrl := feed.NewController(h.src, sess, h.pageSize)
	if err := ctrl.Load(c.Context()); err != nil {
		return nil, err
	}
	h.cache.Put(sess.ID, ctrl)
	return ctrl, nil
}

func (h *FeedHandler) render(c fiber.Ctx, ctrl *feed.Controller, mode feed.Mode, query string) error {
	page := pageFor(c, "Feed")
	page.Search = query
	page.SearchAction = "/posts/feed/view"
	return c.Render("feed", view.FeedPage{
		Page: page,
		Feed: view.Feed(ctrl.View(mode, query), mode, query),
	})
}
