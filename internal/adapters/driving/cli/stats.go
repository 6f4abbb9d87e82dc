package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	engine, _, err := openEngine(ctx, EngineOptions{SkipInitialIngest: true}, nil)
	if err != nil {
		return err
	}
	defer shutdown(ctx, engine)

	stats, err := engine.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}
	if statsJSON {
		return printJSON(cmd, stats)
	}
	printStats(cmd, stats)
	return nil
}
