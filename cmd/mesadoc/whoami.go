package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/role"
)

var whoamiJSON bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Muestra la identidad y el rol de la sesion activa",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		// Refresh the cached identity; a stale or revoked session logs
		// itself out here.
		if err := a.store.RefreshUser(commandContext()); err != nil {
			return fmt.Errorf("la sesión ya no es válida, inicie sesión nuevamente")
		}

		identity, _ := a.store.Identity()
		effective, err := a.store.Role()
		if err != nil {
			return err
		}

		if whoamiJSON {
			return json.NewEncoder(os.Stdout).Encode(identity)
		}
		fmt.Printf("Usuario: %s <%s>\n", identity.Names, identity.Email)
		fmt.Printf("Roles:   %s (efectivo: %s)\n", strings.Join(identity.Roles, ", "), effective)
		if identity.Area.Name != "" {
			fmt.Printf("Área:    %s\n", identity.Area.Name)
		}
		fmt.Printf("Bandeja: %s\n", role.DefaultRoute(effective))
		if a.store.ExpiresWithin(5 * time.Minute) {
			fmt.Println("Aviso: su sesión expira pronto.")
		}
		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Salida en formato JSON")
	rootCmd.AddCommand(whoamiCmd)
}
