package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docviewer/internal/catalog"
	"github.com/ziadkadry99/docviewer/internal/progress"
)

var catalogListen string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the reference API group catalog",
	Long:  `Import OpenAPI/Swagger documents into the catalog database and serve them as a standalone group backend.`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import OpenAPI documents from a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, "catalog")

		database, store, err := openCatalog(cmd.Context(), cfg, "", logger)
		if err != nil {
			return err
		}
		defer database.Close()

		reporter := progress.NewReporter("Importing specs")
		result, err := importCatalog(cmd.Context(), cfg, store, args[0], reporter, logger)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d group(s) into %s\n", len(result.Imported), database.Path())
		for _, id := range result.Imported {
			fmt.Printf("  + %s\n", id)
		}
		for _, path := range result.Skipped {
			fmt.Printf("  - %s (not an OpenAPI document)\n", path)
		}
		failed := make([]string, 0, len(result.Failed))
		for path := range result.Failed {
			failed = append(failed, path)
		}
		sort.Strings(failed)
		for _, path := range failed {
			fmt.Printf("  ! %s: %s\n", path, result.Failed[path])
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d document(s) failed to import", len(failed))
		}
		return nil
	},
}

var catalogServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a standalone API group backend",
	Long: `Serves GET /apis, GET /admin/apis and GET /api-docs/{group} from the
catalog database, plus the catalog management API under /api/catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, "catalog")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, store, err := openCatalog(ctx, cfg, cfg.Catalog.Dir, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		httpServer := &http.Server{
			Addr:              catalogListen,
			Handler:           catalog.NewRouter(store, logger, cfg.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		logger.Info().Str("addr", catalogListen).Str("db", database.Path()).Msg("catalog backend listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	catalogServeCmd.Flags().StringVar(&catalogListen, "listen", ":8081", "address the catalog backend listens on")
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogServeCmd)
	rootCmd.AddCommand(catalogCmd)
}
