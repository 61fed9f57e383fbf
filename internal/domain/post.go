package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrTitleRequired is returned when a post is submitted without a title.
var ErrTitleRequired = errors.New("title is required")

// Post is a user-authored content item as returned by the social API.
type Post struct {
	ID      int        `json:"id"`
	Title   string     `json:"title"`
	Body    string     `json:"body"`
	Tags    []string   `json:"tags,omitempty"`
	Media   *Media     `json:"media"`
	Author  *Author    `json:"author,omitempty"`
	Created *time.Time `json:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
}

// Media is an optional image attached to a post or profile.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Author is the embedded author of a post. Some payloads carry only a username.
type Author struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Avatar   *Media `json:"avatar,omitempty"`
}

// DisplayName resolves name, then username. Empty when neither is set.
func (a *Author) DisplayName() string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}

// AuthorName returns the post author's display name, or "".
func (p Post) AuthorName() string {
	return p.Author.DisplayName()
}

// OwnedBy reports whether userName is the post's author. Ownership is plain
// name equality; the API offers nothing stronger.
func (p Post) OwnedBy(userName string) bool {
	if userName == "" {
		return false
	}
	return p.AuthorName() == userName
}

// PostInput is the body for creating or updating a post.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Media *Media `json:"media,omitempty"`
}

// NewPostInput trims the form values and builds the request body. The media
// alt text defaults to the title when a media URL is given without one.
func NewPostInput(title, body, mediaURL, mediaAlt string) (PostInput, error) {
	in := PostInput{Title: trim(title), Body: trim(body)}
	if in.Title == "" {
		return PostInput{}, ErrTitleRequired
	}
	if u := trim(mediaURL); u != "" {
		alt := trim(mediaAlt)
		if alt == "" {
			alt = in.Title
		}
		in.Media = &Media{URL: u, Alt: alt}
	}
	return in, nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
