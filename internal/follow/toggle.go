package follow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// State is the state of one follow control.
type State int

const (
	StateUninitialized State = iota
	StateHidden
	StateChecking
	StateNotFollowing
	StateFollowing
	StateUpdating
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHidden:
		return "hidden"
	case StateChecking:
		return "checking"
	case StateNotFollowing:
		return "not_following"
	case StateFollowing:
		return "following"
	case StateUpdating:
		return "updating"
	}
	return "unknown"
}

// ErrDisabled is returned by Click when the control is not accepting clicks:
// hidden, not yet checked, checking, or with a toggle already in flight.
var ErrDisabled = errors.New("follow control disabled")

// Toggle is the follow/unfollow control for one target profile as seen by one
// session. At most one request is in flight per Toggle.
type Toggle struct {
	api    port.FollowAPI
	token  string
	self   string
	target string

	mu    sync.Mutex
	state State
}

// NewToggle creates a control for target. It starts hidden when there is no
// authenticated user or when target is the user: self-follow is not offered.
func NewToggle(api port.FollowAPI, sess *domain.Session, target string) *Toggle {
	t := &Toggle{api: api, target: target, state: StateUninitialized}
	if sess != nil {
		t.token = sess.AccessToken
		t.self = sess.UserName
	}
	if t.token == "" || t.self == "" || target == "" || target == t.self {
		t.state = StateHidden
	}
	return t
}

// Target returns the profile name this control follows or unfollows.
func (t *Toggle) Target() string { return t.target }

// State returns the current state.
func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Refresh checks the current following status. It is a no-op while hidden,
// checking, or updating. A failed check resolves to StateNotFollowing.
func (t *Toggle) Refresh(ctx context.Context) State {
	t.mu.Lock()
	switch t.state {
	case StateUninitialized, StateNotFollowing, StateFollowing:
		t.state = StateChecking
	default:
		s := t.state
		t.mu.Unlock()
		return s
	}
	t.mu.Unlock()

	following, err := t.isFollowing(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		slog.Error("failed to fetch following list", "user", t.self, "target", t.target, "error", err)
		t.state = StateNotFollowing
		return t.state
	}
	if following {
		t.state = StateFollowing
	} else {
		t.state = StateNotFollowing
	}
	return t.state
}

func (t *Toggle) isFollowing(ctx context.Context) (bool, error) {
	profiles, err := t.api.ListFollowing(ctx, t.token, t.self)
	if err != nil {
		return false, err
	}
	for _, p := range profiles {
		if p.DisplayName() == t.target {
			return true, nil
		}
	}
	return false, nil
}

// Click issues the single mutating request for the current state: follow
// from StateNotFollowing, unfollow from StateFollowing. On success the state
// flips; on failure it is restored and the error returned.
func (t *Toggle) Click(ctx context.Context) (State, error) {
	t.mu.Lock()
	from := t.state
	if from != StateFollowing && from != StateNotFollowing {
		t.mu.Unlock()
		return from, ErrDisabled
	}
	t.state = StateUpdating
	t.mu.Unlock()

	var err error
	if from == StateFollowing {
		err = t.api.Unfollow(ctx, t.token, t.target)
	} else {
		err = t.api.Follow(ctx, t.token, t.target)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.state = from
		return t.state, err
	}
	if from == StateFollowing {
		t.state = StateNotFollowing
	} else {
		t.state = StateFollowing
	}
	return t.state, nil
}

// Label is the button text for a state.
func Label(s State) string {
	switch s {
	case StateFollowing:
		return "Unfollow"
	case StateNotFollowing:
		return "Follow"
	case StateChecking, StateUpdating, StateUninitialized:
		return "..."
	}
	return ""
}

// Disabled reports whether a control in state s ignores clicks.
func Disabled(s State) bool {
	return s != StateFollowing && s != StateNotFollowing
}
