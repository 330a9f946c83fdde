package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/config"
)

var cfgPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mesadoc",
	Short: "Cliente de mesa de partes: tramites, documentos y notificaciones",
	Long: `mesadoc es el cliente de terminal del sistema de tramite documentario.
Permite iniciar sesion, revisar tramites, descargar documentos y seguir
las notificaciones en tiempo real.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Ruta del archivo de configuracion")
}
