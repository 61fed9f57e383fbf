package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/arturoeanton/go-social-front/internal/follow"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow <profile>",
	Short: "Follow a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, a *app) error {
			return a.setFollowing(ctx, args[0], true)
		})
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <profile>",
	Short: "Unfollow a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, a *app) error {
			return a.setFollowing(ctx, args[0], false)
		})
	},
}

// setFollowing drives the follow toggle towards want, clicking at most once.
func (a *app) setFollowing(ctx context.Context, target string, want bool) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	t := follow.NewToggle(a.api, sess, target)
	if t.State() == follow.StateHidden {
		return fmt.Errorf("cannot follow %q", target)
	}

	st := t.Refresh(ctx)
	if (st == follow.StateFollowing) == want {
		fmt.Fprintf(a.out, "Already %s %s.\n", verb(want), target)
		return nil
	}

	if _, err := t.Click(ctx); err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return a.expired(ctx)
		}
		return fmt.Errorf("could not update follow status: %w", err)
	}
	fmt.Fprintf(a.out, "Now %s %s.\n", verb(want), target)
	return nil
}

func verb(following bool) string {
	if following {
		return "following"
	}
	return "not following"
}
