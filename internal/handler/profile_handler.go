package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/service"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
)

// ProfileHandler serves the current user's profile and author pages.
type ProfileHandler struct {
	profiles *service.ProfileService
	sessions *session.Manager
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles *service.ProfileService, sessions *session.Manager) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, sessions: sessions}
}

// Register sets up the author route under the protected /posts group.
func (h *ProfileHandler) Register(posts fiber.Router) {
	posts.Get("/author", h.Author)
}

// Me renders the signed-in user's profile with their posts.
func (h *ProfileHandler) Me(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	profile, posts, err := h.profiles.Me(c.Context(), sess)
	if err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return expire(c, h.sessions)
		}
		return err
	}

	page := view.ProfilePage{Page: pageFor(c, "Profile"), Cards: view.Cards(posts)}
	if profile != nil {
		pv := view.Profile(*profile, sess.UserName)
		page.Profile = &pv
	}
	if len(page.Cards) == 0 {
		page.Empty = view.NoProfilePosts
	}
	return c.Render("profile", page)
}

// Author lists one author's posts.
func (h *ProfileHandler) Author(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	name := strings.TrimSpace(c.Query("name"))
	page := view.AuthorPage{Page: pageFor(c, "Author"), Name: name}
	if name == "" {
		page.Empty = msgNoAuthorName
		return c.Status(fiber.StatusBadRequest).Render("author", page)
	}
	page.Title = name

	posts, err := h.profiles.AuthorPosts(c.Context(), sess, name)
	if err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return expire(c, h.sessions)
		}
		slog.Warn("fetch author posts", "author", name, "error", err)
		page.Empty = msgAuthorPostsErr
		if !errors.Is(err, port.ErrTransport) {
			page.Empty = msgAuthorPostsFail
		}
		return c.Render("author", page)
	}

	page.Cards = view.Cards(posts)
	if len(page.Cards) == 0 {
		page.Empty = view.NoAuthorPosts
	}
	return c.Render("author", page)
}
