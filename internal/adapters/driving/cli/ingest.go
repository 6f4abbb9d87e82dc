package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

var (
	ingestPDFDir string
	ingestReset  bool
	ingestJSON   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the regulation PDFs",
	Long: `Extracts, chunks and embeds every PDF in the configured directory.

Ingestion is skipped when the collection already holds passages. Use --reset
to drop the collection and index the directory again, for example after
adding or replacing documents.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPDFDir, "pdf-dir", "", "directory of PDFs (overrides settings)")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "drop the collection and re-ingest")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	engine, settings, err := openEngine(ctx, EngineOptions{SkipInitialIngest: true}, func(s *domain.AppSettings) {
		if ingestPDFDir != "" {
			s.Ingestion.Directory = ingestPDFDir
		}
	})
	if err != nil {
		return err
	}
	defer shutdown(ctx, engine)

	var report *domain.IngestReport
	if ingestReset {
		report, err = engine.Rebuild(ctx)
	} else {
		report, err = engine.Ingest(ctx, settings.Ingestion.Directory)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}
