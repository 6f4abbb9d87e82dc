package cli

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/yonerge/internal/adapters/driving/http"
	"github.com/custodia-labs/yonerge/internal/connectors/filesystem"
	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
	"github.com/custodia-labs/yonerge/internal/logger"
)

var (
	serveAddr   string
	servePDFDir string
	serveWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the question answering API.

Routes:
  GET  /        service banner
  GET  /health  readiness (503 until the index is loaded)
  POST /ask     {"question": "...", "top_k": 10}
  GET  /stats   collection statistics

With --watch the PDF directory is watched and the index is rebuilt after
files are added, changed or removed. Questions asked during a rebuild get
a 503 response.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, 127.0.0.1:8000)")
	serveCmd.Flags().StringVar(&servePDFDir, "pdf-dir", "", "directory of PDFs (overrides settings)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "rebuild the index when the PDF directory changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	engine, settings, err := openEngine(ctx, EngineOptions{}, func(s *domain.AppSettings) {
		if serveAddr != "" {
			s.Server.Addr = serveAddr
		}
		if servePDFDir != "" {
			s.Ingestion.Directory = servePDFDir
		}
	})
	if err != nil {
		return err
	}
	defer shutdown(ctx, engine)

	if serveWatch {
		stop, err := watchDocuments(ctx, engine, settings.Ingestion.Directory)
		if err != nil {
			return err
		}
		defer stop()
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API listening on http://%s\n", settings.Server.Addr)
	return httpapi.NewServer(engine, settings.Server).Run(ctx)
}

// watchDocuments rebuilds the index after each burst of changes in dir.
func watchDocuments(ctx context.Context, engine driving.Engine, dir string) (func(), error) {
	w, err := filesystem.NewWatcher(filesystem.WatcherConfig{
		Dir: dir,
		OnChange: func(ctx context.Context) {
			logger.Info("change detected in %s, rebuilding index", dir)
			report, err := engine.Rebuild(ctx)
			if err != nil {
				logger.Error("rebuild failed: %v", err)
				return
			}
			logger.Info("rebuild complete: %d documents, %d passages", report.Documents, report.Chunks)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	go w.Run(ctx)
	return func() { _ = w.Close() }, nil
}
