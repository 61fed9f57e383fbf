package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/arturoeanton/go-social-front/internal/feed"
	"github.com/arturoeanton/go-social-front/internal/view"
	"github.com/spf13/cobra"
)

var (
	feedSearch    string
	feedFollowing bool
)

// feedCmd prints the feed, optionally filtered
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List recent posts",
	Long: `List recent posts. --following keeps only posts by profiles you follow;
--search keeps posts whose title or author contains the text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := feed.ModeAll
		if feedFollowing {
			mode = feed.ModeFollowing
		}
		return run(func(ctx context.Context, a *app) error {
			return a.feed(ctx, mode, feedSearch)
		})
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedSearch, "search", "s", "", "Filter by title or author")
	feedCmd.Flags().BoolVar(&feedFollowing, "following", false, "Only posts by profiles you follow")
}

func (a *app) feed(ctx context.Context, mode feed.Mode, query string) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	ctrl := feed.NewController(a.api, sess, a.pageSize)
	if err := ctrl.Load(ctx); err != nil {
		if errors.Is(err, feed.ErrSessionExpired) {
			return a.expired(ctx)
		}
		return err
	}

	v := view.Feed(ctrl.View(mode, query), mode, query)
	if v.Empty != "" {
		fmt.Fprintln(a.out, v.Empty)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCREATED")
	for _, c := range v.Cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Title, c.Author, c.Created)
	}
	return w.Flush()
}
