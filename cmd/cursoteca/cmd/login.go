package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CursosTech/cursoteca/internal/domain/session"
)

var (
	loginNombre string
	loginEmail  string
	loginAdmin  bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start a session and persist it across invocations",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		creds := session.Credentials{
			Nombre:  loginNombre,
			Email:   loginEmail,
			IsAdmin: loginAdmin,
		}
		if err := sf.Auth.Login(creds); err != nil {
			return err
		}
		s, _ := sf.Auth.Current()
		fmt.Printf("Logged in as %s (%s)", s.Nombre, s.Email)
		if s.IsAdmin {
			fmt.Print(" [admin]")
		}
		fmt.Println()
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear the persisted state, cart included",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if !sf.Auth.IsAuthenticated() {
			fmt.Println("No active session.")
			return nil
		}
		if err := sf.Auth.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginNombre, "nombre", "", "display name for the session")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().BoolVar(&loginAdmin, "admin", false, "grant the admin role")
	_ = loginCmd.MarkFlagRequired("nombre")
	_ = loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, logoutCmd)
}
