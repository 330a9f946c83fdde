package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mesadoc.org/internal/api"
	"mesadoc.org/internal/audit"
	"mesadoc.org/internal/notify"
	"mesadoc.org/internal/obs"
	"mesadoc.org/internal/realtime"
	"mesadoc.org/internal/session"
)

var (
	watchMetricsAddr string
	watchInterval    time.Duration
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notificaciones: listar, marcar leidas y seguir en vivo",
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista las notificaciones sin leer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRoute("/notificaciones"); err != nil {
			return err
		}

		store := notify.NewStore(a.client)
		if err := store.Load(commandContext()); err != nil {
			return fmt.Errorf("%s (vuelva a intentar con 'mesadoc notify list')", api.UserMessage(err))
		}

		items, unread := store.Snapshot()
		if len(items) == 0 {
			fmt.Println("No tiene notificaciones pendientes.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIPO\tTITULO\tFECHA")
		for _, n := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.Type, n.Title, n.CreatedAt.Local().Format("02/01/2006 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d sin leer\n", unread)
		return nil
	},
}

var notifyReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Marca una notificacion como leida",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRoute("/notificaciones"); err != nil {
			return err
		}

		ctx := commandContext()
		store := notify.NewStore(a.client)
		if err := store.Load(ctx); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		if err := store.MarkAsRead(ctx, args[0]); err != nil {
			// Tolerated: the optimistic state heals on the next load.
			fmt.Printf("Aviso: %s\n", api.UserMessage(err))
			return nil
		}
		_ = audit.LogEvent(ctx, "notify.read", map[string]any{"id": args[0]})
		fmt.Println("Notificación marcada como leída.")
		return nil
	},
}

var notifyReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Marca todas las notificaciones como leidas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRoute("/notificaciones"); err != nil {
			return err
		}

		ctx := commandContext()
		store := notify.NewStore(a.client)
		if err := store.Load(ctx); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		if err := store.MarkAllAsRead(ctx); err != nil {
			// Loud by design: everything was zeroed locally.
			return fmt.Errorf("no se pudo confirmar en el servidor: %s", api.UserMessage(err))
		}
		_ = audit.LogEvent(ctx, "notify.read_all", nil)
		fmt.Println("Todas las notificaciones fueron marcadas como leídas.")
		return nil
	},
}

// printNotifier renders de-duplicated toasts on the terminal.
type printNotifier struct{}

func (printNotifier) Toast(t realtime.Toast) {
	fmt.Printf("[%s] %s\n", t.At.Local().Format("15:04:05"), t.Message)
}

var notifyWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sigue las notificaciones en tiempo real",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireRoute("/notificaciones"); err != nil {
			return err
		}
		identity, _ := a.store.Identity()

		obs.Init()
		obs.InitBuildInfo(version, commit)

		ctx, stop := signal.NotifyContext(commandContext(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = session.ContextWithIdentity(ctx, identity)

		store := notify.NewStore(a.client)
		if err := store.Load(ctx); err != nil {
			obs.Warn("initial notification load failed", map[string]any{"error": err.Error()})
			fmt.Printf("Aviso: %s. Se reintentará periódicamente.\n", api.UserMessage(err))
		} else {
			fmt.Printf("Conectado. %d notificaciones sin leer.\n", store.Unread())
		}

		channel := realtime.NewChannel(a.cfg.SocketURL, identity.ID)
		dispatcher := realtime.NewDispatcher(channel.Events(), store, printNotifier{})

		go dispatcher.Run(ctx)
		go func() {
			if err := channel.Run(ctx); errors.Is(err, realtime.ErrRetriesExhausted) {
				// Degrade silently to fetch-only; the ticker keeps working.
				obs.Warn("realtime channel degraded to fetch-only", nil)
			}
		}()

		var metricsSrv *http.Server
		if watchMetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", obs.Handler())
			metricsSrv = &http.Server{
				Addr:              watchMetricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 15 * time.Second,
			}
			go func() {
				if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					obs.Error("metrics listener failed", map[string]any{"error": err.Error()})
				}
			}()
		}

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		lastUnread := store.Unread()
		for {
			select {
			case <-ctx.Done():
				if metricsSrv != nil {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					_ = metricsSrv.Shutdown(shutdownCtx)
					cancel()
				}
				fmt.Println("\nHasta luego.")
				return nil
			case <-ticker.C:
				if err := store.Load(ctx); err != nil {
					obs.Warn("periodic notification load failed", map[string]any{"error": err.Error()})
					continue
				}
				if unread := store.Unread(); unread != lastUnread {
					fmt.Printf("(%d sin leer)\n", unread)
					lastUnread = unread
				}
			}
		}
	},
}

func init() {
	notifyWatchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Expone metricas Prometheus en esta direccion (ej. :9180)")
	notifyWatchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Intervalo de recarga periodica")
	notifyCmd.AddCommand(notifyListCmd, notifyReadCmd, notifyReadAllCmd, notifyWatchCmd)
	rootCmd.AddCommand(notifyCmd)
}
