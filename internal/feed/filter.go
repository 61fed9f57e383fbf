package feed

import (
	"strings"

	"github.com/arturoeanton/go-social-front/internal/domain"
)

// Mode selects which posts a feed view starts from.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeFollowing Mode = "following"
)

// ParseMode maps a query value onto a Mode, defaulting to ModeAll.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeFollowing {
		return ModeFollowing
	}
	return ModeAll
}

// FollowingSet is the set of profile names the session user follows.
// Membership is by name, as the API exposes no stable profile id.
type FollowingSet map[string]struct{}

// NewFollowingSet builds a set from a following list, keyed by display name.
// Entries with neither name nor username are skipped.
func NewFollowingSet(profiles []domain.Profile) FollowingSet {
	set := make(FollowingSet, len(profiles))
	for _, p := range profiles {
		if name := p.DisplayName(); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Has reports whether name is followed.
func (s FollowingSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Search returns the posts whose title or author name contains query,
// case-insensitively. A blank query returns posts unchanged.
func Search(posts []domain.Post, query string) []domain.Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return posts
	}

	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if Matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p matches an already lower-cased, trimmed query.
func Matches(p domain.Post, q string) bool {
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.AuthorName()), q)
}

// FromFollowing keeps the posts whose author is in set. An empty set yields
// an empty result, never the unfiltered list.
func FromFollowing(posts []domain.Post, set FollowingSet) []domain.Post {
	out := make([]domain.Post, 0)
	if len(set) == 0 {
		return out
	}
	for _, p := range posts {
		name := p.AuthorName()
		if name != "" && set.Has(name) {
			out = append(out, p)
		}
	}
	return out
}

// View applies the mode filter, then the text search.
func View(posts []domain.Post, set FollowingSet, mode Mode, query string) []domain.Post {
	if mode == ModeFollowing {
		posts = FromFollowing(posts, set)
	}
	return Search(posts, query)
}
