// Command socialctl reads and follows from a terminal, using the same feed
// and follow components as the web front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arturoeanton/go-social-front/internal/adapter/noroff"
	"github.com/arturoeanton/go-social-front/internal/adapter/store"
	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const cliSessionID = "cli"

var (
	sessionPath string
	timeout     time.Duration
)

// app is what the commands run against. Tests swap it out.
type app struct {
	api      port.SocialAPI
	sessions port.SessionStore
	pageSize int
	out      io.Writer
}

var newApp = func() (*app, error) {
	cfg := config.Load()
	path := sessionPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, ".socialctl", "session.json")
	}
	return &app{
		api:      noroff.NewClient(cfg.APIBaseURL, cfg.APIKey),
		sessions: store.NewFileStore(path),
		pageSize: cfg.FeedPageSize,
		out:      os.Stdout,
	}, nil
}

// session loads the stored session or explains how to get one.
func (a *app) session(ctx context.Context) (*domain.Session, error) {
	s, err := a.sessions.Get(ctx, cliSessionID)
	if errors.Is(err, port.ErrSessionNotFound) {
		return nil, errors.New("not logged in, run `socialctl login` first")
	}
	return s, err
}

// expired drops the stored session after the API rejected its token.
func (a *app) expired(ctx context.Context) error {
	if err := a.sessions.Delete(ctx, cliSessionID); err != nil {
		return err
	}
	return errors.New("session expired, run `socialctl login` again")
}

// run builds the app and calls fn with a bounded context.
func run(fn func(ctx context.Context, a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, a)
}

var rootCmd = &cobra.Command{
	Use:           "socialctl",
	Short:         "Read the social feed and manage follows from a terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file (default: ~/.socialctl/session.json)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
