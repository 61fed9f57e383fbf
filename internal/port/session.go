package port

import (
	"context"

	"github.com/arturoeanton/go-social-front/internal/domain"
)

// SessionStore persists sessions by id. Get returns ErrSessionNotFound for
// unknown ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}
