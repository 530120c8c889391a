package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/gotrue"
)

var rootCmd = &cobra.Command{
	Use:   "gotrue",
	Short: "Interact with a GoTrue authentication service",
	Long: `gotrue is a small client for a GoTrue authentication service.

Configuration comes from the environment:
  GOTRUE_REFERENCE_ID  project reference (host prefix), or
  GOTRUE_URL           full base URL of the service
  GOTRUE_API_KEY       anon key (service key for admin commands)
  GOTRUE_STATE_FILE    SQLite file sessions persist to (default: gotrue-state.db)`,
	SilenceUsage: true,
}

var (
	flagEmail    string
	flagPhone    string
	flagPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := newClient(loadConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		resp, err := client.SignUp(cmd.Context(), gotrue.SignUpRequest{
			Email:    flagEmail,
			Phone:    flagPhone,
			Password: flagPassword,
		})
		if err != nil {
			return err
		}
		if resp.Session == nil {
			fmt.Println("signed up, confirmation required before sign-in")
			return nil
		}
		fmt.Println("signed up and signed in as", resp.User.ID)
		return nil
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email/phone and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := newClient(loadConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		session, err := client.SignInWithPassword(cmd.Context(), gotrue.PasswordCredentials{
			Email:    flagEmail,
			Phone:    flagPhone,
			Password: flagPassword,
		})
		if err != nil {
			return err
		}
		fmt.Println("signed in, session expires at", session.ExpiresAt)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the current user record",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := newClient(loadConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		user, err := client.GetUser(cmd.Context(), "")
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(user)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a session refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := newClient(loadConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		session, err := client.RefreshSession(cmd.Context(), "")
		if err != nil {
			return err
		}
		fmt.Println("refreshed, session expires at", session.ExpiresAt)
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := newClient(loadConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := client.SignOut(cmd.Context(), ""); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{signupCmd, signinCmd} {
		cmd.Flags().StringVar(&flagEmail, "email", "", "email address")
		cmd.Flags().StringVar(&flagPhone, "phone", "", "phone number")
		cmd.Flags().StringVar(&flagPassword, "password", "", "password")
	}

	rootCmd.AddCommand(signupCmd, signinCmd, whoamiCmd, refreshCmd, signoutCmd)
}
