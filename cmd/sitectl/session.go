package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeharbor/portfolio/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Save a bearer token for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Store.Login(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in (token saved for %s)\n", session.Lifetime)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Store.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

type whoami struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Subject       string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Role          string `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			info := whoami{Authenticated: sess.Store.IsAuthenticated()}
			claims, err := sess.Store.Claims()
			switch {
			case err == nil:
				info.Subject = claims.Subject
				info.Email = claims.Email
				info.Name = claims.Name
				info.Role = claims.Role
				if claims.ExpiresAt != nil {
					info.ExpiresAt = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
				}
			case errors.Is(err, session.ErrNoSession):
			default:
				a.logger.Debug("token is not a JWT")
			}

			return render(cmd.OutOrStdout(), a.output, info, []string{"AUTHENTICATED", "SUBJECT", "EMAIL", "ROLE", "EXPIRES"},
				[][]string{{fmt.Sprint(info.Authenticated), info.Subject, info.Email, info.Role, info.ExpiresAt}})
		},
	}
}
