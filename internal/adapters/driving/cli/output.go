package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printAnswer writes an answer and its sources, styled on a terminal.
func printAnswer(cmd *cobra.Command, result *domain.AnswerResult) {
	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		printAnswerPlain(cmd, result)
		return
	}

	s := styles.DefaultStyles()
	if result.Success {
		fmt.Fprintln(out, s.Answer.Render(result.Answer))
	} else {
		fmt.Fprintln(out, s.Warning.Render(result.Answer))
		if result.Error != "" {
			fmt.Fprintln(out, s.Muted.Render("("+result.Error+")"))
		}
	}
	if len(result.Sources) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, s.Subtitle.Render(fmt.Sprintf("Kaynaklar (%d)", len(result.Sources))))
	for i, src := range result.Sources {
		fmt.Fprintf(out, "  %s %s\n",
			s.Normal.Render(fmt.Sprintf("[%d] %s", i+1, src.Document)),
			s.Muted.Render(fmt.Sprintf("%s, uzaklık %.4f", src.Category, src.Distance)),
		)
	}
}

func printAnswerPlain(cmd *cobra.Command, result *domain.AnswerResult) {
	cmd.Println(result.Answer)
	if !result.Success && result.Error != "" {
		cmd.Printf("(%s)\n", result.Error)
	}
	if len(result.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Printf("Kaynaklar (%d):\n", len(result.Sources))
	for i, src := range result.Sources {
		cmd.Printf("  [%d] %s (%s, uzaklık %.4f)\n", i+1, src.Document, src.Category, src.Distance)
	}
}

func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	if report.Skipped {
		cmd.Println("Collection already populated; nothing ingested. Use --reset to rebuild.")
		return
	}
	cmd.Printf("Files found:      %d\n", report.Files)
	cmd.Printf("Documents added:  %d\n", report.Documents)
	cmd.Printf("Passages indexed: %d\n", report.Chunks)
	for _, f := range report.Empty {
		cmd.Printf("  no text: %s\n", f)
	}
	for _, f := range report.Failed {
		cmd.Printf("  failed:  %s\n", f)
	}
}

func printStats(cmd *cobra.Command, stats *domain.EngineStats) {
	ready := "no"
	if stats.Ready {
		ready = "yes"
	}
	cmd.Printf("Collection:       %s\n", stats.CollectionName)
	cmd.Printf("Passages:         %d\n", stats.TotalChunks)
	cmd.Printf("Embedding model:  %s\n", stats.EmbeddingModel)
	cmd.Printf("Generative model: %s\n", stats.GenerativeModel)
	cmd.Printf("Distance space:   %s\n", stats.Space)
	cmd.Printf("Storage backend:  %s\n", stats.StorageBackend)
	cmd.Printf("Ready:            %s\n", ready)
}
