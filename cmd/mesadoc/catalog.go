package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/api"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "Áreas de la organización",
}

var areasListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista las áreas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		areas, err := a.client.Areas(commandContext())
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNOMBRE")
		for _, area := range areas {
			fmt.Fprintf(w, "%s\t%s\n", area.ID, area.Name)
		}
		return w.Flush()
	},
}

var usuariosCmd = &cobra.Command{
	Use:   "usuarios",
	Short: "Usuarios registrados",
}

var usuariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los usuarios (solo administradores)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRoute("/admin/usuarios"); err != nil {
			return err
		}

		users, err := a.client.Usuarios(commandContext())
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNOMBRES\tEMAIL\tROLES\tAREA")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Names, u.Email, strings.Join(u.Roles, ","), u.Area)
		}
		return w.Flush()
	},
}

var tiposDocumentoCmd = &cobra.Command{
	Use:   "tipos-documento",
	Short: "Tipos de documento del catálogo",
}

var tiposDocumentoListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los tipos de documento",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		tipos, err := a.client.TiposDocumento(commandContext())
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNOMBRE")
		for _, t := range tipos {
			fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Name)
		}
		return w.Flush()
	},
}

func init() {
	areasCmd.AddCommand(areasListCmd)
	usuariosCmd.AddCommand(usuariosListCmd)
	tiposDocumentoCmd.AddCommand(tiposDocumentoListCmd)
	rootCmd.AddCommand(areasCmd, usuariosCmd, tiposDocumentoCmd)
}
