package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"school-admin/internal/view"
)

const passwordEnvVar = "SCHOOL_PASSWORD"

func newLoginCommand(s *session) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(passwordEnvVar)
			}

			env, err := s.api.Auth.Login(cmd.Context(), username, password)
			if err == nil {
				err = env.Err()
			}
			if err != nil {
				return s.fail(err)
			}

			if err := s.store.Save(env.Data.AccessToken, env.Data.User.Username); err != nil {
				return s.fail(err)
			}
			s.notifier.Success(view.TitleSuccess, env.Message)
			fmt.Fprintf(s.out, "logged in as %s\n", env.Data.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "operator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "operator password, defaults to $"+passwordEnvVar)
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.store.Clear(); err != nil {
				return s.fail(err)
			}
			fmt.Fprintln(s.out, "logged out")
			return nil
		},
	}
}

func newWhoamiCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the operator the stored token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := s.api.Auth.Me(cmd.Context())
			if err == nil {
				err = env.Err()
			}
			if err != nil {
				return s.fail(err)
			}
			fmt.Fprintf(s.out, "%s (%s)\n", env.Data.Username, strings.ToLower(env.Data.Role))
			return nil
		},
	}
}
