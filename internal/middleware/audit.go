package middleware

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(userName, action, resource, resourceID, details, ip, userAgent string) error
}

// LogAuditWriter writes audit records to a slog logger. Used when no
// database is configured.
type LogAuditWriter struct {
	Logger *slog.Logger
}

// WriteAudit implements AuditWriter.
func (w LogAuditWriter) WriteAudit(userName, action, resource, resourceID, details, ip, userAgent string) error {
	l := w.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("audit",
		"user", userName,
		"action", action,
		"resource", resource,
		"resource_id", resourceID,
		"details", details,
		"ip", ip,
		"user_agent", userAgent,
	)
	return nil
}

// AuditMiddleware records every request.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Fiber reuses context objects and their buffers, and the write below
		// outlives the request, so copy before the handler runs.
		method := strings.Clone(c.Method())
		path := strings.Clone(c.Path())
		ip := strings.Clone(c.IP())
		userAgent := strings.Clone(c.Get("User-Agent"))

		err := c.Next()

		userName := "anonymous"
		if s := GetSession(c); s != nil && s.UserName != "" {
			userName = strings.Clone(s.UserName)
		}

		details := map[string]any{
			"method":      method,
			"path":        path,
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)

		go func() {
			if writeErr := writer.WriteAudit(
				userName,
				domain.AuditActionRequest,
				"page",
				path,
				string(detailsJSON),
				ip,
				userAgent,
			); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
