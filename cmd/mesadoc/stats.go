package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/api"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Resumen estadístico de trámites (solo administradores)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRoute("/estadisticas"); err != nil {
			return err
		}

		stats, err := a.client.EstadisticasResumen(commandContext())
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}

		fmt.Printf("Total de trámites: %d\n", stats.TotalTramites)
		fmt.Printf("Generado: %s\n\n", stats.GeneradoEn.Local().Format("02/01/2006 15:04"))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ESTADO\tTOTAL")
		for _, k := range sortedKeys(stats.PorEstado) {
			fmt.Fprintf(w, "%s\t%d\n", k, stats.PorEstado[k])
		}
		fmt.Fprintln(w, "\nAREA\tTOTAL")
		for _, k := range sortedKeys(stats.PorArea) {
			fmt.Fprintf(w, "%s\t%d\n", k, stats.PorArea[k])
		}
		return w.Flush()
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
