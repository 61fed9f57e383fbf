package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/arturoeanton/go-social-front/internal/adapter/noroff"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
)

// User-facing messages.
const (
	msgNoPostID        = "No post ID provided"
	msgPostNotFound    = "Post not found."
	msgNoPermission    = "You do not have permission to edit this post."
	msgTitleRequired   = "Title is required"
	msgSomethingWrong  = "Something went wrong"
	msgFollowFailed    = "Could not update follow status. Please try again."
	msgDeleteFailed    = "Could not delete the post. Please try again"
	msgNoAuthorName    = "No author name provided"
	msgAuthorPostsFail = "Could not load posts for this author"
	msgAuthorPostsErr  = "An error occurred while loading posts."
	msgRegistered      = "Registration successful! You can now log in."
)

// notices are flash texts selected by the ?notice= query after a redirect.
var notices = map[string]string{
	"created":       "Post created.",
	"updated":       "Post updated.",
	"deleted":       "Post successfully deleted",
	"delete_failed": msgDeleteFailed,
	"follow_failed": msgFollowFailed,
}

// pageFor fills the shared layout data for the current request.
func pageFor(c fiber.Ctx, title string) view.Page {
	p := view.NewPage(title, "")
	if s := middleware.GetSession(c); s != nil {
		p.User = s.UserName
	}
	if n, ok := notices[c.Query("notice")]; ok {
		p.Notice = n
	}
	return p
}

// expire clears the session after the upstream rejected its token.
func expire(c fiber.Ctx, sessions *session.Manager) error {
	if err := sessions.Clear(c); err != nil {
		slog.Error("clear session", "error", err)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}
	return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
}

// seeOther redirects after a form post.
func seeOther(c fiber.Ctx, to string) error {
	return c.Redirect().Status(fiber.StatusSeeOther).To(to)
}

// withNotice appends a notice code to a local path.
func withNotice(path, code string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set("notice", code)
	u.RawQuery = q.Encode()
	return u.String()
}

// localPath accepts only same-site absolute paths.
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}

// queryID parses the ?id= query. ok is false when it is absent.
func queryID(c fiber.Ctx) (id int, ok bool, err error) {
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.Atoi(raw)
	return id, true, err
}

// apiMessage returns the upstream message for API errors and fallback for
// anything else.
func apiMessage(err error, fallback string) string {
	var apiErr *noroff.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}

// recordAudit writes a domain audit event without blocking the response.
func recordAudit(w middleware.AuditWriter, c fiber.Ctx, userName, action, resource, resourceID string, details fiber.Map) {
	if w == nil {
		return
	}
	if details == nil {
		details = fiber.Map{}
	}
	detailsJSON, _ := json.Marshal(details)
	// The write runs after the handler returns; nothing may alias request buffers.
	userName, resource, resourceID = strings.Clone(userName), strings.Clone(resource), strings.Clone(resourceID)
	ip, ua := strings.Clone(c.IP()), strings.Clone(c.Get("User-Agent"))
	go func() {
		if err := w.WriteAudit(userName, action, resource, resourceID, string(detailsJSON), ip, ua); err != nil {
			slog.Error("failed to write audit log", "error", err)
		}
	}()
}
