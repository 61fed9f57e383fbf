package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/arturoeanton/go-social-front/internal/adapter/noroff"
	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd stores an access token in the session file
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	Long: `Log in with email and password and store the access token in the
session file. The password may also come from SOCIAL_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, a *app) error {
			password := loginPassword
			if password == "" {
				password = os.Getenv("SOCIAL_PASSWORD")
			}
			return a.login(ctx, loginEmail, password)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, a *app) error {
			if err := a.sessions.Delete(ctx, cliSessionID); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, a *app) error {
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\n", s.UserName, s.UserEmail)
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
}

func (a *app) login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	res, err := a.api.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, port.ErrTransport) {
			return err
		}
		return fmt.Errorf("login failed: %s", noroff.Message(err))
	}
	if err := a.sessions.Save(ctx, &domain.Session{
		ID:          cliSessionID,
		AccessToken: res.AccessToken,
		UserName:    res.Name,
		UserEmail:   res.Email,
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", res.Name)
	return nil
}
