package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/crucial707/hrms/cmd/cli/client"
	"github.com/crucial707/hrms/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers the auth command group on the root command.
func InitAuth(rootCmd *cobra.Command) {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, log in and log out",
		Long:  "Authenticate with the HRMS API. The session is stored locally for later commands.",
	}
	authCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd(), whoamiCmd())
	rootCmd.AddCommand(authCmd)
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var orgName, adminName, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new organisation and its admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgName == "" || adminName == "" || email == "" || password == "" {
				return errors.New("--org, --name, --email and --password are required")
			}
			sess, err := client.Authenticate(cmd.Context(), config.APIURL(), "/api/auth/register", map[string]string{
				"orgName":   orgName,
				"adminName": adminName,
				"email":     email,
				"password":  password,
			})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if err := config.SaveSession(sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s as %s. Session saved.\n", sess.Organisation.Name, sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgName, "org", "", "organisation name")
	cmd.Flags().StringVar(&adminName, "name", "", "admin user name")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 6 characters)")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			sess, err := client.Authenticate(cmd.Context(), config.APIURL(), "/api/auth/login", map[string]string{
				"email":    email,
				"password": password,
			})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := config.SaveSession(sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s).\n", sess.User.Name, sess.Organisation.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Record the logout and remove the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if errors.Is(err, config.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			if err != nil {
				return err
			}
			// The token stays valid server-side until it expires, so the
			// local copy is removed even if the call fails.
			callErr := sess.Do(cmd.Context(), http.MethodPost, "/api/auth/logout", nil, nil, nil)
			if err := config.ClearSession(); err != nil {
				return err
			}
			if callErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", callErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> in %s (%s)\n",
				sess.User.Name, sess.User.Email, sess.Organisation.Name, sess.BaseURL)
			return nil
		},
	}
}
