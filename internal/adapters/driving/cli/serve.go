package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/custodia-labs/microverse/internal/adapters/driving/http"
	"github.com/custodia-labs/microverse/internal/connectors/filesystem"
	"github.com/custodia-labs/microverse/internal/core/domain"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API:

  POST /api/rag/search  {text, k}
  POST /api/intent      {query, topK}
  POST /api/embed       {text}
  POST /api/utter       {task: {name}}
  GET  /api/rag/count
  GET  /metrics
  GET  /healthz

With --watch, changes in the content directory re-run ingestion.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "re-ingest when content files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = svc.ServerAddr
	}

	server, err := httpapi.NewServer(httpapi.Config{
		Addr:      addr,
		Retrieval: svc.Retrieval,
		Intent:    svc.Intent,
		Metrics:   svc.Metrics,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return server.Run(ctx) })

	if serveWatch {
		dir := svc.ContentDir
		if dir == "" {
			dir = domain.DefaultContentDir
		}
		watcher := filesystem.NewWatcher(dir, 0, func(ctx context.Context) error {
			report, err := svc.Ingest.Ingest(ctx, domain.IngestOptions{ContentDir: dir})
			if err != nil {
				return err
			}
			cmd.Printf("Re-ingested %d rows from %d files.\n", report.Inserted, report.Files)
			return nil
		})
		g.Go(func() error { return watcher.Run(ctx) })
	}

	cmd.Printf("Listening on http://%s\n", server.Addr())
	return g.Wait()
}
