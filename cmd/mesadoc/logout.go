package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/audit"
	"mesadoc.org/internal/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cierra la sesion y limpia el estado local",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		ctx := commandContext()
		if a.store.Hydrate() {
			if identity, ok := a.store.Identity(); ok {
				ctx = session.ContextWithIdentity(ctx, identity)
			}
		}
		if err := a.store.Logout(); err != nil {
			return err
		}
		_ = audit.LogEvent(ctx, "session.logout", nil)
		fmt.Println("Sesión cerrada.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
