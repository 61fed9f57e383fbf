package handler

import (
	"github.com/arturoeanton/go-social-front/internal/feed"
	"github.com/arturoeanton/go-social-front/internal/follow"
	"github.com/arturoeanton/go-social-front/internal/middleware"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/service"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/gofiber/fiber/v3"
)

// FiberConfig is the app configuration the routes rely on. Values taken from
// the request are kept past the handler (registry keys, cache keys, audit
// records), so they must not alias fasthttp's reused buffers.
func FiberConfig(views fiber.Views) fiber.Config {
	return fiber.Config{
		Views:        views,
		Immutable:    true,
		UnescapePath: true,
	}
}

// Deps is everything the routes need.
type Deps struct {
	API      port.SocialAPI
	Sessions *session.Manager
	Audit    middleware.AuditWriter
	// AuditLog enables /api/v1/audit/logs when set.
	AuditLog     AuditLister
	FeedPageSize int
}

// Mount registers every page and API route on app. Public routes must be
// registered on app before this call.
func Mount(app *fiber.App, d Deps) {
	cache := feed.NewCache()
	follows := follow.NewRegistry(d.API)
	d.Sessions.OnClear(cache.Drop)
	d.Sessions.OnClear(follows.DropSession)

	authHandler := NewAuthHandler(service.NewAuthService(d.API), d.Sessions, d.Audit)
	authHandler.Register(app)

	requireSession := middleware.RequireSession(d.Sessions)

	feedHandler := NewFeedHandler(d.API, cache, d.Sessions, d.FeedPageSize)
	postHandler := NewPostHandler(service.NewPostService(d.API), follows, view.NewMarkdown(), d.Sessions, d.Audit)
	profileHandler := NewProfileHandler(service.NewProfileService(d.API), d.Sessions)
	followHandler := NewFollowHandler(follows, d.Sessions, d.Audit)

	posts := app.Group("/posts", requireSession)
	feedHandler.Register(posts)
	postHandler.Register(posts)
	profileHandler.Register(posts)

	app.Get("/profile", requireSession, profileHandler.Me)

	profiles := app.Group("/profiles", requireSession)
	followHandler.Register(profiles)

	api := app.Group("/api/v1", requireSession)
	feedHandler.RegisterAPI(api)
	followHandler.RegisterAPI(api)
	if d.AuditLog != nil {
		NewAuditHandler(d.AuditLog).Register(api)
	}
}
