package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/api"
	"mesadoc.org/internal/audit"
	"mesadoc.org/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Inicia sesion contra el servidor de tramites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		// Matching the web guard: an authenticated user landing on the
		// login route is sent away, not logged in twice.
		if _, err := a.mirror.Cookie(); err == nil {
			fmt.Println("Ya tiene una sesión activa. Use 'mesadoc logout' primero.")
			return nil
		}

		email := strings.TrimSpace(loginEmail)
		password := loginPassword
		reader := bufio.NewReader(os.Stdin)
		if email == "" {
			fmt.Print("Correo: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Print("Contraseña: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			password = strings.TrimRight(line, "\r\n")
		}

		ctx := commandContext()
		route, err := a.store.Login(ctx, email, password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidRole) {
				return fmt.Errorf("el usuario no tiene un rol válido asignado")
			}
			return fmt.Errorf("%s", api.UserMessage(err))
		}

		identity, _ := a.store.Identity()
		ctx = session.ContextWithIdentity(ctx, identity)
		_ = audit.LogEvent(ctx, "session.login", map[string]any{"route": route})

		fmt.Printf("Bienvenido, %s.\n", identity.Names)
		fmt.Printf("Su bandeja inicial: %s\n", route)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Correo institucional")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Contraseña (se solicita si se omite)")
	rootCmd.AddCommand(loginCmd)
}
