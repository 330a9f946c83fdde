package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/api"
	"mesadoc.org/internal/audit"
)

var docOutput string

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Documentos adjuntos",
}

var docDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Descarga el contenido de un documento",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		out := docOutput
		if out == "" {
			out = args[0] + ".pdf"
		}
		f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return fmt.Errorf("no se pudo crear %s: %w", out, err)
		}

		ctx := commandContext()
		if err := a.client.DownloadDocumento(ctx, args[0], f); err != nil {
			f.Close()
			os.Remove(out)
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		if err := f.Close(); err != nil {
			return err
		}
		_ = audit.LogEvent(ctx, "documento.download", map[string]any{"id": args[0], "output": out})
		fmt.Printf("Documento guardado en %s\n", out)
		return nil
	},
}

func init() {
	docDownloadCmd.Flags().StringVarP(&docOutput, "output", "o", "", "Ruta del archivo de salida")
	docCmd.AddCommand(docDownloadCmd)
	rootCmd.AddCommand(docCmd)
}
