package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/follow"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/service"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
)

// PostHandler serves single posts and the create, edit and delete flows.
type PostHandler struct {
	posts    *service.PostService
	follows  *follow.Registry
	markdown *view.Markdown
	sessions *session.Manager
	audit    middleware.AuditWriter
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts *service.PostService, follows *follow.Registry, markdown *view.Markdown, sessions *session.Manager, audit middleware.AuditWriter) *PostHandler {
	return &PostHandler{posts: posts, follows: follows, markdown: markdown, sessions: sessions, audit: audit}
}

// Register sets up routes under the protected /posts group.
func (h *PostHandler) Register(posts fiber.Router) {
	posts.Get("/post", h.Show)
	posts.Get("/create", h.CreatePage)
	posts.Post("/create", h.Create)
	posts.Get("/edit", h.EditPage)
	posts.Post("/edit", h.Edit)
	posts.Post("/delete", h.Delete)
}

// Show renders one post. The owner gets edit and delete controls, anyone
// else a follow control for the author.
func (h *PostHandler) Show(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	page := view.PostPage{Page: pageFor(c, "Post")}

	id, ok, err := queryID(c)
	if !ok {
		page.Missing = msgNoPostID
		return c.Status(fiber.StatusBadRequest).Render("post", page)
	}
	if err != nil {
		page.Missing = view.PostNotFound
		return c.Status(fiber.StatusNotFound).Render("post", page)
	}

	p, err := h.posts.Get(c.Context(), sess, id)
	if err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return expire(c, h.sessions)
		}
		if !errors.Is(err, port.ErrNotFound) {
			slog.Error("fetch post", "post_id", id, "error", err)
		}
		page.Missing = view.PostNotFound
		return c.Status(fiber.StatusNotFound).Render("post", page)
	}

	page.Title = view.Title(*p)
	page.Post = h.detail(c, sess, p)
	return c.Render("post", page)
}

func (h *PostHandler) detail(c fiber.Ctx, sess *domain.Session, p *domain.Post) *view.PostDetail {
	d := &view.PostDetail{
		ID:     p.ID,
		Title:  view.Title(*p),
		Author: view.AuthorLabel(*p),
		Body:   h.markdown.Render(p.Body),
	}
	d.Image = view.SingleImage(p)
	d.Created, d.Updated = view.Dates(p.Created, p.Updated)

	name := p.AuthorName()
	if name != "" {
		d.AuthorHref = view.AuthorHref(name)
	}
	if p.OwnedBy(sess.UserName) {
		d.Owner = true
		d.EditHref = "/posts/edit?id=" + strconv.Itoa(p.ID)
		d.DeleteHref = "/posts/delete?id=" + strconv.Itoa(p.ID)
		return d
	}
	if name != "" {
		t := h.follows.Get(sess, name)
		d.Follow = view.NewFollowButton(name, t.Refresh(c.Context()))
		if d.Follow != nil {
			d.Follow.Return = view.PostHref(p.ID)
		}
	}
	return d
}

// CreatePage renders an empty post form.
func (h *PostHandler) CreatePage(c fiber.Ctx) error {
	return c.Render("post_form", createForm(pageFor(c, "New post"), view.PostForm{}, ""))
}

// Create publishes a post and returns to the feed.
func (h *PostHandler) Create(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	form := readForm(c)

	in, err := domain.NewPostInput(form.Title, form.Body, form.MediaURL, form.MediaAlt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("post_form", createForm(pageFor(c, "New post"), form, msgTitleRequired))
	}

	p, err := h.posts.Create(c.Context(), sess, in)
	if err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return expire(c, h.sessions)
		}
		return c.Status(fiber.StatusBadGateway).Render("post_form", createForm(pageFor(c, "New post"), form, apiMessage(err, msgSomethingWrong)))
	}
	recordAudit(h.audit, c, sess.UserName, domain.AuditActionPostEdit, "post", strconv.Itoa(p.ID), fiber.Map{"op": "create"})
	return seeOther(c, withNotice("/posts/feed", "created"))
}

// EditPage renders the edit form for an owned post.
func (h *PostHandler) EditPage(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	id, ok, err := h.editID(c)
	if !ok {
		return err
	}

	p, err := h.posts.Editable(c.Context(), sess, id)
	if status, msg, handled := h.editError(err); handled {
		if status == fiber.StatusUnauthorized {
			return expire(c, h.sessions)
		}
		return h.editBlocked(c, id, status, msg)
	}
	return c.Render("post_form", editForm(pageFor(c, "Edit post"), id, view.FormFromPost(*p), ""))
}

// Edit saves changes to an owned post.
func (h *PostHandler) Edit(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	id, ok, err := h.editID(c)
	if !ok {
		return err
	}
	form := readForm(c)

	in, err := domain.NewPostInput(form.Title, form.Body, form.MediaURL, form.MediaAlt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("post_form", editForm(pageFor(c, "Edit post"), id, form, msgTitleRequired+"."))
	}

	_, err = h.posts.Update(c.Context(), sess, id, in)
	if status, msg, handled := h.editError(err); handled {
		if status == fiber.StatusUnauthorized {
			return expire(c, h.sessions)
		}
		if status == fiber.StatusBadGateway {
			return c.Status(status).Render("post_form", editForm(pageFor(c, "Edit post"), id, form, msg))
		}
		return h.editBlocked(c, id, status, msg)
	}
	recordAudit(h.audit, c, sess.UserName, domain.AuditActionPostEdit, "post", strconv.Itoa(id), fiber.Map{"op": "update"})
	return seeOther(c, withNotice(view.PostHref(id), "updated"))
}

// Delete removes an owned post and returns to the feed.
func (h *PostHandler) Delete(c fiber.Ctx) error {
	sess := middleware.GetSession(c)
	id, ok, err := queryID(c)
	if !ok || err != nil {
		return seeOther(c, "/posts/feed")
	}

	if err := h.posts.Delete(c.Context(), sess, id); err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return expire(c, h.sessions)
		}
		slog.Warn("delete post", "post_id", id, "user", sess.UserName, "error", err)
		return seeOther(c, withNotice(view.PostHref(id), "delete_failed"))
	}
	recordAudit(h.audit, c, sess.UserName, domain.AuditActionPostEdit, "post", strconv.Itoa(id), fiber.Map{"op": "delete"})
	return seeOther(c, withNotice("/posts/feed", "deleted"))
}

// editError maps an Editable or Update failure onto a status and message.
func (h *PostHandler) editError(err error) (int, string, bool) {
	switch {
	case err == nil:
		return 0, "", false
	case errors.Is(err, port.ErrUnauthorized):
		return fiber.StatusUnauthorized, "", true
	case errors.Is(err, port.ErrForbidden):
		return fiber.StatusForbidden, msgNoPermission, true
	case errors.Is(err, port.ErrNotFound):
		return fiber.StatusNotFound, msgPostNotFound, true
	default:
		slog.Error("edit post", "error", err)
		return fiber.StatusBadGateway, apiMessage(err, msgSomethingWrong+"."), true
	}
}

// editID reads the post id for the edit routes. A missing id is a bad
// request; an unparsable one names no post, as on the detail page.
func (h *PostHandler) editID(c fiber.Ctx) (int, bool, error) {
	id, ok, err := queryID(c)
	if !ok {
		return 0, false, h.editBlocked(c, 0, fiber.StatusBadRequest, msgNoPostID+".")
	}
	if err != nil {
		return 0, false, h.editBlocked(c, 0, fiber.StatusNotFound, msgPostNotFound)
	}
	return id, true, nil
}

func (h *PostHandler) editBlocked(c fiber.Ctx, id, status int, msg string) error {
	fp := editForm(pageFor(c, "Edit post"), id, view.PostForm{}, msg)
	fp.Hidden = true
	return c.Status(status).Render("post_form", fp)
}

func readForm(c fiber.Ctx) view.PostForm {
	return view.PostForm{
		Title:    c.FormValue("title"),
		Body:     c.FormValue("body"),
		MediaURL: c.FormValue("mediaUrl"),
		MediaAlt: c.FormValue("mediaAlt"),
	}
}

func createForm(page view.Page, form view.PostForm, msg string) view.FormPage {
	return view.FormPage{
		Page:    page,
		Heading: "Create post",
		Action:  "/posts/create",
		Submit:  "Publish",
		Form:    form,
		Message: msg,
	}
}

func editForm(page view.Page, id int, form view.PostForm, msg string) view.FormPage {
	return view.FormPage{
		Page:    page,
		Heading: "Edit post",
		Action:  "/posts/edit?id=" + strconv.Itoa(id),
		Submit:  "Save changes",
		Form:    form,
		Message: msg,
	}
}
