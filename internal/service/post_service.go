package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// PostService wraps post CRUD with ownership checks.
type PostService struct {
	api port.PostsAPI
}

// NewPostService creates a new post service.
func NewPostService(api port.PostsAPI) *PostService {
	return &PostService{api: api}
}

// Get fetches one post with its author.
func (s *PostService) Get(ctx context.Context, sess *domain.Session, id int) (*domain.Post, error) {
	return s.api.GetPost(ctx, sess.AccessToken, id)
}

// Create publishes a new post.
func (s *PostService) Create(ctx context.Context, sess *domain.Session, in domain.PostInput) (*domain.Post, error) {
	p, err := s.api.CreatePost(ctx, sess.AccessToken, in)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	slog.Info("post created", "user", sess.UserName, "post_id", p.ID)
	return p, nil
}

// Editable fetches a post and checks that the session user owns it.
// A post owned by someone else yields port.ErrForbidden.
func (s *PostService) Editable(ctx context.Context, sess *domain.Session, id int) (*domain.Post, error) {
	p, err := s.api.GetPost(ctx, sess.AccessToken, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(sess.UserName) {
		return p, port.ErrForbidden
	}
	return p, nil
}

// Update replaces an owned post's title, body and media.
func (s *PostService) Update(ctx context.Context, sess *domain.Session, id int, in domain.PostInput) (*domain.Post, error) {
	if _, err := s.Editable(ctx, sess, id); err != nil {
		return nil, err
	}
	p, err := s.api.UpdatePost(ctx, sess.AccessToken, id, in)
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	slog.Info("post updated", "user", sess.UserName, "post_id", id)
	return p, nil
}

// Delete removes an owned post.
func (s *PostService) Delete(ctx context.Context, sess *domain.Session, id int) error {
	if _, err := s.Editable(ctx, sess, id); err != nil {
		return err
	}
	if err := s.api.DeletePost(ctx, sess.AccessToken, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	slog.Info("post deleted", "user", sess.UserName, "post_id", id)
	return nil
}
