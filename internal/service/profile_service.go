package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
	"golang.org/x/sync/errgroup"
)

// ProfileService loads profile pages.
type ProfileService struct {
	api port.ProfilesAPI
}

// NewProfileService creates a new profile service.
func NewProfileService(api port.ProfilesAPI) *ProfileService {
	return &ProfileService{api: api}
}

// Me fetches the session user's profile and posts concurrently. Only an
// unauthorized profile fetch is returned as an error; any other failure
// leaves the profile nil or the posts empty.
func (s *ProfileService) Me(ctx context.Context, sess *domain.Session) (*domain.Profile, []domain.Post, error) {
	if sess.UserName == "" {
		return nil, nil, nil
	}

	var (
		profile *domain.Profile
		posts   []domain.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.api.GetProfile(gctx, sess.AccessToken, sess.UserName)
		if err != nil {
			if errors.Is(err, port.ErrUnauthorized) {
				return err
			}
			slog.Warn("fetch profile", "user", sess.UserName, "error", err)
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		ps, err := s.api.ListProfilePosts(gctx, sess.AccessToken, sess.UserName)
		if err != nil {
			slog.Warn("fetch profile posts", "user", sess.UserName, "error", err)
			return nil
		}
		posts = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, posts, nil
}

// AuthorPosts lists the posts of one author.
func (s *ProfileService) AuthorPosts(ctx context.Context, sess *domain.Session, name string) ([]domain.Post, error) {
	return s.api.ListProfilePosts(ctx, sess.AccessToken, name)
}
