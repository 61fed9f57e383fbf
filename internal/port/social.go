package port

import (
	"context"

	"github.com/arturoeanton/go-social-front/internal/domain"
)

// AuthAPI covers the unauthenticated session endpoints.
type AuthAPI interface {
	// Login exchanges credentials for an access token and the user's name.
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)

	// Register creates a new account. It does not log the user in.
	Register(ctx context.Context, reg domain.Registration) error
}

// PostsAPI covers the post endpoints. Every call needs a bearer token.
type PostsAPI interface {
	ListPosts(ctx context.Context, token string, limit int) ([]domain.Post, error)
	GetPost(ctx context.Context, token string, id int) (*domain.Post, error)
	CreatePost(ctx context.Context, token string, in domain.PostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, token string, id int, in domain.PostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, token string, id int) error
}

// FollowAPI is the slice of the profile endpoints the follow toggle needs.
type FollowAPI interface {
	// ListFollowing returns the profiles that name follows.
	ListFollowing(ctx context.Context, token, name string) ([]domain.Profile, error)
	Follow(ctx context.Context, token, name string) error
	Unfollow(ctx context.Context, token, name string) error
}

// ProfilesAPI covers the profile endpoints.
type ProfilesAPI interface {
	FollowAPI
	GetProfile(ctx context.Context, token, name string) (*domain.Profile, error)
	ListProfilePosts(ctx context.Context, token, name string) ([]domain.Post, error)
}

// SocialAPI is the whole upstream social API.
type SocialAPI interface {
	AuthAPI
	PostsAPI
	ProfilesAPI
}
