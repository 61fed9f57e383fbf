package handler

import (
	"errors"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/service"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	audit       middleware.AuditWriter
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager, audit middleware.AuditWriter) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, audit: audit}
}

// Register sets up auth routes.
func (h *AuthHandler) Register(app fiber.Router) {
	app.Get("/", func(c fiber.Ctx) error {
		return c.Redirect().To("/posts/feed")
	})
	app.Get("/login", h.LoginPage)
	app.Post("/login", h.Login)
	app.Get("/register", h.RegisterPage)
	app.Post("/register", h.SignUp)
	app.Post("/logout", h.Logout)
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c fiber.Ctx) error {
	page := view.AuthPage{Page: view.NewPage("Log in", "")}
	if c.Query("registered") != "" {
		page.Info = msgRegistered
	}
	return c.Render("login", page)
}

// Login exchanges credentials for a session.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	email := c.FormValue("email")
	res, err := h.authService.Login(c.Context(), email, c.FormValue("password"))
	if err != nil {
		msg := apiMessage(err, "Login failed. Check your email and password.")
		if errors.Is(err, service.ErrCredentialsRequired) {
			msg = "Email and password are required."
		}
		return c.Status(fiber.StatusUnauthorized).Render("login", view.AuthPage{
			Page:    view.NewPage("Log in", ""),
			Email:   email,
			Message: msg,
		})
	}

	// A stale session from an earlier login must not linger.
	_ = h.sessions.Clear(c)

	if _, err := h.sessions.Start(c, res); err != nil {
		return err
	}
	recordAudit(h.audit, c, res.Name, domain.AuditActionLogin, "session", "", nil)
	return seeOther(c, "/posts/feed")
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c fiber.Ctx) error {
	return c.Render("register", view.AuthPage{Page: view.NewPage("Register", "")})
}

// SignUp creates an account and sends the user to the login page.
func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	reg := domain.Registration{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if err := h.authService.Register(c.Context(), reg); err != nil {
		msg := apiMessage(err, "Could not register user")
		if errors.Is(err, service.ErrRegistrationIncomplete) {
			msg = "Name, email and password are required."
		}
		return c.Status(fiber.StatusBadRequest).Render("register", view.AuthPage{
			Page:    view.NewPage("Register", ""),
			Name:    reg.Name,
			Email:   reg.Email,
			Message: msg,
		})
	}
	return seeOther(c, "/login?registered=1")
}

// Logout clears the session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if s, err := h.sessions.Load(c); err == nil {
		recordAudit(h.audit, c, s.UserName, domain.AuditActionLogout, "session", "", nil)
	}
	if err := h.sessions.Clear(c); err != nil {
		return err
	}
	return seeOther(c, "/login")
}
