package handler

import (
	"errors"
	"log/slog"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/follow"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/gofiber/fiber/v3"
)

// FollowHandler toggles following an author.
type FollowHandler struct {
	follows  *follow.Registry
	sessions *session.Manager
	audit    middleware.AuditWriter
}

// NewFollowHandler creates a new follow handler.
func NewFollowHandler(follows *follow.Registry, sessions *session.Manager, audit middleware.AuditWriter) *FollowHandler {
	return &FollowHandler{follows: follows, sessions: sessions, audit: audit}
}

// Register sets up the form route under the protected /profiles group.
func (h *FollowHandler) Register(profiles fiber.Router) {
	profiles.Post("/:name/follow", h.Submit)
}

// RegisterAPI sets up the JSON route under the protected /api/v1 group.
func (h *FollowHandler) RegisterAPI(api fiber.Router) {
	api.Post("/profiles/:name/follow", h.JSON)
}

// click resolves an unchecked toggle and then flips it.
func (h *FollowHandler) click(c fiber.Ctx) (*follow.Toggle, follow.State, error) {
	sess := middleware.GetSession(c)
	t := h.follows.Get(sess, c.Params("name"))
	if t.State() == follow.StateUninitialized {
		t.Refresh(c.Context())
	}
	st, err := t.Click(c.Context())
	if err == nil {
		recordAudit(h.audit, c, sess.UserName, domain.AuditActionFollow, "profile", t.Target(), fiber.Map{"state": st.String()})
	}
	return t, st, err
}

// Submit handles the post-page form and redirects back.
func (h *FollowHandler) Submit(c fiber.Ctx) error {
	back := localPath(c.FormValue("return"), "/posts/feed")
	t, _, err := h.click(c)
	switch {
	case err == nil, errors.Is(err, follow.ErrDisabled):
		return seeOther(c, back)
	case errors.Is(err, port.ErrUnauthorized):
		return expire(c, h.sessions)
	default:
		slog.Error("follow toggle", "target", t.Target(), "error", err)
		return seeOther(c, withNotice(back, "follow_failed"))
	}
}

// JSON toggles and reports the new state. A toggle that is hidden or busy
// answers 409 without contacting the API.
func (h *FollowHandler) JSON(c fiber.Ctx) error {
	t, st, err := h.click(c)
	body := fiber.Map{
		"target":    t.Target(),
		"state":     st.String(),
		"label":     follow.Label(st),
		"following": st == follow.StateFollowing,
	}
	switch {
	case err == nil:
		return c.JSON(body)
	case errors.Is(err, follow.ErrDisabled):
		body["error"] = "follow control is not available"
		return c.Status(fiber.StatusConflict).JSON(body)
	case errors.Is(err, port.ErrUnauthorized):
		return expire(c, h.sessions)
	default:
		slog.Error("follow toggle", "target", t.Target(), "error", err)
		body["error"] = msgFollowFailed
		return c.Status(fiber.StatusBadGateway).JSON(body)
	}
}
