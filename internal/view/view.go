package view

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/feed"
	"github.com/arturoeanton/go-social-front/internal/follow"
)

// Placeholder images and texts.
const (
	FallbackPostImage   = "https://via.placeholder.com/600x400?text=No+Image"
	FallbackSingleImage = "https://via.placeholder.com/1200x500?text=No+Image"
	FallbackAvatar      = "https://via.placeholder.com/150x150?text=No+Avatar"

	UntitledPost     = "Untitled Post"
	UnknownAuthor    = "Unknown Author"
	NoPosts          = "No posts available."
	NoFollowingPosts = "No posts from profiles you follow yet."
	NoAuthorPosts    = "This author has no posts yet."
	NoProfilePosts   = "No posts yet."
	NoBio            = "No bio yet."
	PostNotFound     = "Post not found"

	dateLayout = "02.01.2006"
)

// Image is an <img> description. Src is never empty; when it differs from
// Fallback the template installs a load-error handler that swaps to Fallback
// and removes itself, so the swap happens at most once.
type Image struct {
	Src      string `json:"src"`
	Fallback string `json:"fallback"`
	Alt      string `json:"alt"`
}

// SwapOnError reports whether the image needs a load-error handler.
func (i Image) SwapOnError() bool {
	return i.Src != i.Fallback
}

func newImage(m *domain.Media, fallback string, alts ...string) Image {
	img := Image{Src: fallback, Fallback: fallback}
	if m != nil {
		if u := NormalizeMediaURL(strings.TrimSpace(m.URL)); u != "" {
			img.Src = u
		}
		img.Alt = m.Alt
	}
	for _, a := range alts {
		if img.Alt != "" {
			break
		}
		img.Alt = a
	}
	return img
}

// Card is one post in a grid.
type Card struct {
	ID         int    `json:"id"`
	Href       string `json:"href"`
	Image      Image  `json:"image"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	AuthorHref string `json:"authorHref,omitempty"`
	Created    string `json:"created"`
	Updated    string `json:"updated,omitempty"`
}

// PostHref is the single-post link for id.
func PostHref(id int) string {
	return "/posts/post?id=" + strconv.Itoa(id)
}

// AuthorHref is the author page link for name.
func AuthorHref(name string) string {
	return "/posts/author?name=" + url.QueryEscape(name)
}

// Title returns the post title or the placeholder when it is blank.
func Title(p domain.Post) string {
	if strings.TrimSpace(p.Title) == "" {
		return UntitledPost
	}
	return p.Title
}

// AuthorLabel returns the resolved author name or the placeholder.
func AuthorLabel(p domain.Post) string {
	if name := p.AuthorName(); name != "" {
		return name
	}
	return UnknownAuthor
}

// PostCard maps a post onto a card.
func PostCard(p domain.Post) Card {
	title := Title(p)
	c := Card{
		ID:     p.ID,
		Href:   PostHref(p.ID),
		Image:  newImage(p.Media, FallbackPostImage, p.Title, "Post Image"),
		Title:  title,
		Author: AuthorLabel(p),
	}
	if name := p.AuthorName(); name != "" {
		c.AuthorHref = AuthorHref(name)
	}
	c.Created, c.Updated = Dates(p.Created, p.Updated)
	return c
}

// Cards maps posts onto cards, preserving order.
func Cards(posts []domain.Post) []Card {
	out := make([]Card, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostCard(p))
	}
	return out
}

// Dates formats the created/updated labels. Updated is empty unless it
// differs from created.
func Dates(created, updated *time.Time) (string, string) {
	c := "Created: N/A"
	if created != nil {
		c = "Created: " + created.Format(dateLayout)
	}
	u := ""
	if updated != nil && (created == nil || !updated.Equal(*created)) {
		u = "Updated: " + updated.Format(dateLayout)
	}
	return c, u
}

// Page carries what the shared layout needs.
type Page struct {
	Title  string
	User   string
	Notice string
	Search string
	// SearchAction is where the header search box submits.
	SearchAction string
}

// NewPage returns layout data for a signed-in user.
func NewPage(title, user string) Page {
	return Page{Title: title, User: user, SearchAction: "/posts/feed"}
}

// FeedView is the list part of the feed page.
type FeedView struct {
	Cards []Card
	Empty string
	Mode  feed.Mode
	Query string
}

// Feed builds the feed list for posts already filtered by mode and query.
func Feed(posts []domain.Post, mode feed.Mode, query string) FeedView {
	v := FeedView{Cards: Cards(posts), Mode: mode, Query: strings.TrimSpace(query)}
	if len(v.Cards) == 0 {
		if mode == feed.ModeFollowing {
			v.Empty = NoFollowingPosts
		} else {
			v.Empty = NoPosts
		}
	}
	return v
}

// TabHref links a feed tab, keeping the current query.
func (v FeedView) TabHref(mode feed.Mode) string {
	q := url.Values{"filter": {string(mode)}}
	if v.Query != "" {
		q.Set("search", v.Query)
	}
	return "/posts/feed/view?" + q.Encode()
}

// Following reports whether the following tab is active.
func (v FeedView) Following() bool {
	return v.Mode == feed.ModeFollowing
}

// FeedPage is the full feed page.
type FeedPage struct {
	Page
	Feed FeedView
}

// FollowButton describes the follow control on a post page.
type FollowButton struct {
	Target   string
	Label    string
	State    string
	Disabled bool
	Action   string
	// Return is where the form submission sends the browser back to.
	Return string
}

// NewFollowButton describes a control in state s. Hidden controls yield nil.
func NewFollowButton(target string, s follow.State) *FollowButton {
	if s == follow.StateHidden {
		return nil
	}
	return &FollowButton{
		Target:   target,
		Label:    follow.Label(s),
		State:    s.String(),
		Disabled: follow.Disabled(s),
		Action:   "/profiles/" + url.PathEscape(target) + "/follow",
	}
}

// SingleImage is the hero image of the single-post page.
func SingleImage(p *domain.Post) Image {
	return newImage(p.Media, FallbackSingleImage, "Post image")
}

// PostDetail is the single-post article.
type PostDetail struct {
	ID         int
	Title      string
	Image      Image
	Author     string
	AuthorHref string
	Body       template.HTML
	Created    string
	Updated    string
	Owner      bool
	EditHref   string
	DeleteHref string
	Follow     *FollowButton
}

// PostPage is the single-post page. Missing is set instead of Post when
// there is nothing to show.
type PostPage struct {
	Page
	Post    *PostDetail
	Missing string
}

// ProfileView is the header block of the profile page.
type ProfileView struct {
	Name      string
	Email     string
	Bio       string
	Avatar    Image
	Posts     int
	Followers int
	Following int
}

// Profile maps a profile onto its header block. fallbackName is used when
// the profile carries no name.
func Profile(p domain.Profile, fallbackName string) ProfileView {
	name := p.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = "Unknown user"
	}
	bio := p.Bio
	if strings.TrimSpace(bio) == "" {
		bio = NoBio
	}
	return ProfileView{
		Name:      name,
		Email:     p.Email,
		Bio:       bio,
		Avatar:    newImage(p.Avatar, FallbackAvatar, p.Name, "Profile avatar"),
		Posts:     p.Count.Posts,
		Followers: p.Count.Followers,
		Following: p.Count.Following,
	}
}

// ProfilePage is the current user's profile page.
type ProfilePage struct {
	Page
	Profile *ProfileView
	Cards   []Card
	Empty   string
}

// AuthorPage lists one author's posts.
type AuthorPage struct {
	Page
	Name  string
	Cards []Card
	Empty string
}

// PostForm holds the create/edit form values.
type PostForm struct {
	Title    string
	Body     string
	MediaURL string
	MediaAlt string
}

// FormFromPost pre-fills the edit form.
func FormFromPost(p domain.Post) PostForm {
	f := PostForm{Title: p.Title, Body: p.Body}
	if p.Media != nil {
		f.MediaURL = p.Media.URL
		f.MediaAlt = p.Media.Alt
	}
	return f
}

// FormPage is the create or edit page. Hidden suppresses the form, leaving
// only Message.
type FormPage struct {
	Page
	Heading string
	Action  string
	Submit  string
	Form    PostForm
	Message string
	Hidden  bool
}

// AuthPage is the login or register page.
type AuthPage struct {
	Page
	Name    string
	Email   string
	Message string
	Info    string
}
