// Package porttest provides an in-memory SocialAPI for tests.
package porttest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// Social is an in-memory port.SocialAPI. Tokens map to user names; an unknown
// token yields port.ErrUnauthorized. Set Err to force every call to fail.
type Social struct {
	mu        sync.Mutex
	Tokens    map[string]string
	Passwords map[string]string // email -> password
	Emails    map[string]string // email -> user name
	Posts     []domain.Post
	Profiles  map[string]*domain.Profile
	Following map[string]map[string]bool
	Err       error
	Calls     []string
	nextID    int
}

var _ port.SocialAPI = (*Social)(nil)

// New returns an empty fake with one signed-in user.
func New(user, token string) *Social {
	return &Social{
		Tokens:    map[string]string{token: user},
		Passwords: map[string]string{},
		Emails:    map[string]string{},
		Profiles:  map[string]*domain.Profile{user: {Name: user}},
		Following: map[string]map[string]bool{},
		nextID:    1000,
	}
}

// AddPost appends a post by author and returns its id.
func (s *Social) AddPost(author, title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.Posts = append(s.Posts, domain.Post{ID: s.nextID, Title: title, Author: &domain.Author{Name: author}})
	return s.nextID
}

// CallCount reports how many calls started with prefix.
func (s *Social) CallCount(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (s *Social) begin(name, token string, needAuth bool) (string, error) {
	s.Calls = append(s.Calls, name)
	if s.Err != nil {
		return "", s.Err
	}
	if !needAuth {
		return "", nil
	}
	user, ok := s.Tokens[token]
	if !ok {
		return "", port.ErrUnauthorized
	}
	return user, nil
}

func (s *Social) Login(_ context.Context, c domain.Credentials) (*domain.LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("Login", "", false); err != nil {
		return nil, err
	}
	pw, ok := s.Passwords[c.Email]
	if !ok || pw != c.Password {
		return nil, port.ErrUnauthorized
	}
	name := s.Emails[c.Email]
	token := "tok-" + name
	s.Tokens[token] = name
	return &domain.LoginResult{Name: name, Email: c.Email, AccessToken: token}, nil
}

func (s *Social) Register(_ context.Context, r domain.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("Register", "", false); err != nil {
		return err
	}
	s.Passwords[r.Email] = r.Password
	s.Emails[r.Email] = r.Name
	s.Profiles[r.Name] = &domain.Profile{Name: r.Name, Email: r.Email, Bio: r.Bio}
	return nil
}

func (s *Social) ListPosts(_ context.Context, token string, limit int) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("ListPosts", token, true); err != nil {
		return nil, err
	}
	out := append([]domain.Post(nil), s.Posts...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Social) find(id int) int {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Social) GetPost(_ context.Context, token string, id int) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("GetPost", token, true); err != nil {
		return nil, err
	}
	i := s.find(id)
	if i < 0 {
		return nil, port.ErrNotFound
	}
	p := s.Posts[i]
	return &p, nil
}

func (s *Social) CreatePost(_ context.Context, token string, in domain.PostInput) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.begin("CreatePost", token, true)
	if err != nil {
		return nil, err
	}
	s.nextID++
	p := domain.Post{ID: s.nextID, Title: in.Title, Body: in.Body, Media: in.Media, Author: &domain.Author{Name: user}}
	s.Posts = append(s.Posts, p)
	return &p, nil
}

func (s *Social) UpdatePost(_ context.Context, token string, id int, in domain.PostInput) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("UpdatePost", token, true); err != nil {
		return nil, err
	}
	i := s.find(id)
	if i < 0 {
		return nil, port.ErrNotFound
	}
	s.Posts[i].Title, s.Posts[i].Body, s.Posts[i].Media = in.Title, in.Body, in.Media
	p := s.Posts[i]
	return &p, nil
}

func (s *Social) DeletePost(_ context.Context, token string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("DeletePost", token, true); err != nil {
		return err
	}
	i := s.find(id)
	if i < 0 {
		return port.ErrNotFound
	}
	s.Posts = append(s.Posts[:i], s.Posts[i+1:]...)
	return nil
}

func (s *Social) GetProfile(_ context.Context, token, name string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("GetProfile", token, true); err != nil {
		return nil, err
	}
	p, ok := s.Profiles[name]
	if !ok {
		return nil, port.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Social) ListProfilePosts(_ context.Context, token, name string) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("ListProfilePosts", token, true); err != nil {
		return nil, err
	}
	var out []domain.Post
	for _, p := range s.Posts {
		if p.AuthorName() == name {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Social) ListFollowing(_ context.Context, token, name string) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.begin("ListFollowing", token, true); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.Following[name]))
	for n := range s.Following[name] {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]domain.Profile, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Profile{Name: n})
	}
	return out, nil
}

func (s *Social) Follow(_ context.Context, token, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.begin("Follow", token, true)
	if err != nil {
		return err
	}
	if s.Following[user] == nil {
		s.Following[user] = map[string]bool{}
	}
	s.Following[user][name] = true
	return nil
}

func (s *Social) Unfollow(_ context.Context, token, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.begin("Unfollow", token, true)
	if err != nil {
		return err
	}
	delete(s.Following[user], name)
	return nil
}
