package noroff

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	postsPath    = "/social/posts"
	profilesPath = "/social/profiles"

	apiKeyHeader    = "X-Noroff-API-Key"
	fallbackMessage = "Request failed"
)

// Client implements port.SocialAPI against the Noroff v2 REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new API client. No timeout is set on the HTTP client;
// callers bound requests through their context.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("noroff API error (%d): %s", e.Status, e.Message)
}

// Unwrap maps status codes onto the port sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return port.ErrUnauthorized
	case http.StatusNotFound:
		return port.ErrNotFound
	}
	return nil
}

// Message extracts the user-facing message from err, falling back to a
// generic string for transport failures.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallbackMessage
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

// --- Auth ---

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	var out domain.LoginResult
	if err := c.do(ctx, http.MethodPost, loginPath, "", creds, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	if err := c.do(ctx, http.MethodPost, registerPath, "", reg, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// --- Posts ---

// ListPosts returns up to limit posts in the API's default order, with authors.
func (c *Client) ListPosts(ctx context.Context, token string, limit int) ([]domain.Post, error) {
	q := url.Values{
		"_author": {"true"},
		"_limit":  {strconv.Itoa(limit)},
	}
	var out []domain.Post
	if err := c.do(ctx, http.MethodGet, postsPath+"?"+q.Encode(), token, nil, &out); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// GetPost returns one post with its author.
func (c *Client) GetPost(ctx context.Context, token string, id int) (*domain.Post, error) {
	var out domain.Post
	if err := c.do(ctx, http.MethodGet, postPath(id)+"?_author=true", token, nil, &out); err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &out, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, token string, in domain.PostInput) (*domain.Post, error) {
	var out domain.Post
	if err := c.do(ctx, http.MethodPost, postsPath, token, in, &out); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &out, nil
}

// UpdatePost replaces title, body and media of a post.
func (c *Client) UpdatePost(ctx context.Context, token string, id int, in domain.PostInput) (*domain.Post, error) {
	var out domain.Post
	if err := c.do(ctx, http.MethodPut, postPath(id), token, in, &out); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return &out, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, token string, id int) error {
	if err := c.do(ctx, http.MethodDelete, postPath(id), token, nil, nil); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// --- Profiles ---

// GetProfile returns a profile with its counts.
func (c *Client) GetProfile(ctx context.Context, token, name string) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodGet, profilePath(name), token, nil, &out); err != nil {
		return nil, fmt.Errorf("get profile %q: %w", name, err)
	}
	return &out, nil
}

// ListProfilePosts returns the posts written by name.
func (c *Client) ListProfilePosts(ctx context.Context, token, name string) ([]domain.Post, error) {
	var out []domain.Post
	if err := c.do(ctx, http.MethodGet, profilePath(name)+"/posts", token, nil, &out); err != nil {
		return nil, fmt.Errorf("list posts of %q: %w", name, err)
	}
	return out, nil
}

// ListFollowing returns the profiles name follows.
func (c *Client) ListFollowing(ctx context.Context, token, name string) ([]domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodGet, profilePath(name)+"?_following=true", token, nil, &out); err != nil {
		return nil, fmt.Errorf("list following of %q: %w", name, err)
	}
	return out.Following, nil
}

// Follow makes the session user follow name.
func (c *Client) Follow(ctx context.Context, token, name string) error {
	if err := c.do(ctx, http.MethodPut, profilePath(name)+"/follow", token, nil, nil); err != nil {
		return fmt.Errorf("follow %q: %w", name, err)
	}
	return nil
}

// Unfollow makes the session user stop following name.
func (c *Client) Unfollow(ctx context.Context, token, name string) error {
	if err := c.do(ctx, http.MethodPut, profilePath(name)+"/unfollow", token, nil, nil); err != nil {
		return fmt.Errorf("unfollow %q: %w", name, err)
	}
	return nil
}

func postPath(id int) string {
	return postsPath + "/" + strconv.Itoa(id)
}

func profilePath(name string) string {
	return profilesPath + "/" + url.PathEscape(name)
}

// do sends one request and decodes the envelope's data into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", port.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", port.ErrTransport, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", port.ErrTransport, err)
	}
	return nil
}

// errorMessage picks errors[0].message, then message, then the fallback.
func errorMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fallbackMessage
	}
	if len(env.Errors) > 0 && env.Errors[0].Message != "" {
		return env.Errors[0].Message
	}
	if env.Message != "" {
		return env.Message
	}
	return fallbackMessage
}
