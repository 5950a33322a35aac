package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/docviewer/internal/catalog"
	"github.com/ziadkadry99/docviewer/internal/metrics"
	"github.com/ziadkadry99/docviewer/internal/server"
)

var (
	serveListen     string
	serveServerURL  string
	serveCatalogDir string
	serveAdmin      bool
	serveNavigation string
	serveMetrics    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the documentation portal",
	Long: `Starts the documentation portal. With --catalog-dir the portal also
imports the OpenAPI documents found in that directory and serves them as the
same-origin backend (GET /apis, GET /api-docs/{group}).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("listen") {
			cfg.Listen = serveListen
		}
		if flags.Changed("server-url") {
			cfg.ServerURL = serveServerURL
		}
		if flags.Changed("navigation") {
			cfg.Navigation = serveNavigation
		}
		if flags.Changed("metrics-listen") {
			cfg.MetricsListen = serveMetrics
		}
		if flags.Changed("catalog-dir") {
			cfg.Catalog.Dir = serveCatalogDir
		}
		if serveAdmin {
			cfg.AdminPreset()
		}

		logger := newLogger(cfg, "portal")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var store *catalog.Store
		if cfg.Catalog.Dir != "" {
			database, s, err := openCatalog(ctx, cfg, cfg.Catalog.Dir, logger)
			if err != nil {
				return err
			}
			defer database.Close()
			store = s
		}

		srv, err := server.New(server.Options{
			Config:        cfg,
			Logger:        logger,
			Catalog:       store,
			InlineMetrics: cfg.MetricsListen == "",
		})
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(srv.Start)

		var metricsSrv *http.Server
		if cfg.MetricsListen != "" {
			metricsSrv = metrics.NewServer(cfg.MetricsListen)
			g.Go(func() error {
				logger.Info().Str("addr", cfg.MetricsListen).Msg("metrics listening")
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("metrics server: %w", err)
				}
				return nil
			})
		}

		g.Go(func() error {
			<-gctx.Done()
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if metricsSrv != nil {
				metricsSrv.Shutdown(shutdownCtx)
			}
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "address the portal listens on")
	serveCmd.Flags().StringVar(&serveServerURL, "server-url", "", "backend base URL (default: same origin as the portal)")
	serveCmd.Flags().StringVar(&serveCatalogDir, "catalog-dir", "", "import OpenAPI documents from this directory and serve them")
	serveCmd.Flags().BoolVar(&serveAdmin, "admin", false, "show only the admin group list")
	serveCmd.Flags().StringVar(&serveNavigation, "navigation", "sidebar", "navigation style: sidebar, tabs or dropdown")
	serveCmd.Flags().StringVar(&serveMetrics, "metrics-listen", "", "serve Prometheus metrics on a separate address")
	rootCmd.AddCommand(serveCmd)
}
