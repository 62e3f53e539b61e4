package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	shopkit "github.com/vango-dev/shopkit"
	"github.com/vango-dev/shopkit/internal/devtools"
	"github.com/vango-dev/shopkit/pkg/auth"
	"github.com/vango-dev/shopkit/pkg/cart"
	"github.com/vango-dev/shopkit/pkg/toast"
	"github.com/vango-dev/shopkit/pkg/wishlist"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the debug/metrics server",
		Long: `Run the shopkit debug server.

Endpoints:
  /healthz    liveness probe
  /metrics    Prometheus metrics
  /devtools   WebSocket stream of store mutation events`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shopkit.LoadConfig(configPath)
			if err != nil {
				return err
			}
			// Serving metrics implies instrumenting the backend.
			cfg.Metrics = true

			logger := slog.Default()
			app, err := shopkit.NewApp(cfg,
				shopkit.WithLogger(logger),
				shopkit.WithNotifier(toast.NewLogger(logger)),
			)
			if err != nil {
				return err
			}
			defer app.Close()

			dt := devtools.NewServer()
			defer dt.Close()
			app.Cart.Subscribe(func(s cart.State) { dt.Broadcast("cart", s) })
			app.Wishlist.Subscribe(func(s wishlist.State) { dt.Broadcast("wishlist", s) })
			app.Session.Subscribe(func(s auth.State) { dt.Broadcast("session", s) })

			r := chi.NewRouter()
			r.Use(chimw.RequestID)
			r.Use(chimw.Recoverer)
			r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "ok")
			})
			r.Handle("/metrics", promhttp.Handler())
			r.Get("/devtools", dt.HandleWebSocket)

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}
			logger.Info("shopkit debug server listening", "addr", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":6060", "Listen address")
	cmd.Flags().StringVarP(&configPath, "config", "c", shopkit.ConfigFileName, "Config file path")

	return cmd
}
