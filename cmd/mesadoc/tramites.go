package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/api"
	"mesadoc.org/internal/tramites"
)

var (
	tramitesBuscar string
	tramitesEstado string
	tramitesFirma  string
	tramitesPagina int
	tramitesLimite int
)

var tramitesCmd = &cobra.Command{
	Use:   "tramites",
	Short: "Trámites documentarios: listar y consultar",
}

var tramitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los trámites con filtros y paginación",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		f := tramites.Filters{
			Search: tramitesBuscar,
			Estado: tramites.Estado(tramitesEstado),
			Page:   tramitesPagina,
			Limit:  tramitesLimite,
		}
		switch tramitesFirma {
		case "":
		case "si":
			v := true
			f.RequiereFirma = &v
		case "no":
			v := false
			f.RequiereFirma = &v
		default:
			return fmt.Errorf("valor de --firma no reconocido: %q (use si|no)", tramitesFirma)
		}

		view := tramites.NewView(a.client)
		page, _, err := view.Apply(commandContext(), f)
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}

		if len(page.Data) == 0 {
			fmt.Println("No se encontraron trámites.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODIGO\tASUNTO\tESTADO\tREMITENTE\tFECHA")
		for _, t := range page.Data {
			badge := tramites.BadgeFor(t.Estado)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				t.Codigo, t.Asunto, badge.Label, t.Remitente.Names,
				t.CreatedAt.Local().Format("02/01/2006"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nPágina %d de %d trámites (límite %d)\n", page.PageNumber, page.Total, page.Limit)
		return nil
	},
}

var tramitesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Muestra el detalle de un trámite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}

		t, err := a.client.Tramite(commandContext(), args[0])
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}

		badge := tramites.BadgeFor(t.Estado)
		fmt.Printf("Código:       %s\n", t.Codigo)
		fmt.Printf("Asunto:       %s\n", t.Asunto)
		fmt.Printf("Estado:       %s\n", badge.Label)
		fmt.Printf("Remitente:    %s (%s)\n", t.Remitente.Names, t.Remitente.Area)
		fmt.Printf("Destinatario: %s (%s)\n", t.Destinatario.Names, t.Destinatario.Area)
		fmt.Printf("Documento:    %s (%s)\n", t.Documento.Name, t.Documento.ID)
		fmt.Printf("Fecha:        %s\n", t.CreatedAt.Local().Format("02/01/2006 15:04"))
		if t.RequiereFirma {
			fmt.Println("Requiere firma.")
		}
		if t.RequiereRespuesta {
			fmt.Println("Requiere respuesta.")
		}
		if t.Reenvio != nil {
			fmt.Printf("Reenvío v%d del trámite %s: %s\n", t.Reenvio.Version, t.Reenvio.OrigenID, t.Reenvio.Reason)
		}
		if t.Respuesta != nil {
			fmt.Printf("Respuesta (%s): %s\n", t.Respuesta.CreatedAt.Local().Format("02/01/2006"), t.Respuesta.Message)
		}
		if t.Firma != nil {
			fmt.Printf("Firmado por %s el %s\n", t.Firma.SignedBy, t.Firma.SignedAt.Local().Format("02/01/2006"))
		}
		for _, o := range t.Observaciones {
			state := "pendiente"
			if o.Resolved {
				state = "resuelta"
			}
			fmt.Printf("Observación (%s): %s\n", state, o.Message)
		}
		return nil
	},
}

func init() {
	tramitesListCmd.Flags().StringVar(&tramitesBuscar, "buscar", "", "Texto libre a buscar")
	tramitesListCmd.Flags().StringVar(&tramitesEstado, "estado", "", "Filtra por estado (ENVIADO, ABIERTO, LEIDO, RESPONDIDO, FIRMADO, ANULADO)")
	tramitesListCmd.Flags().StringVar(&tramitesFirma, "firma", "", "Filtra por requiere firma (si|no)")
	tramitesListCmd.Flags().IntVar(&tramitesPagina, "pagina", 1, "Número de página")
	tramitesListCmd.Flags().IntVar(&tramitesLimite, "limite", 10, "Resultados por página")
	tramitesCmd.AddCommand(tramitesListCmd, tramitesShowCmd)
	rootCmd.AddCommand(tramitesCmd)
}
