package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yonerge/internal/client"
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

var (
	askTopK   int
	askJSON   bool
	askServer string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the regulations",
	Long: `Answers a question from the indexed regulations and lists the documents
the answer is based on.

By default the index is opened locally, ingesting the PDF directory first if
the collection is empty. With --server the question is sent to a running
'yonerge serve' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "passages to ground the answer on (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().StringVar(&askServer, "server", "", "URL of a running yonerge API")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	var (
		result *domain.AnswerResult
		err    error
	)
	if askServer != "" {
		result = askRemote(cmd, question)
	} else {
		result, err = askLocal(cmd, question)
		if err != nil {
			return err
		}
	}

	if askJSON {
		return printJSON(cmd, result)
	}
	printAnswer(cmd, result)
	return nil
}

func askRemote(cmd *cobra.Command, question string) *domain.AnswerResult {
	resp := client.New(askServer).AskQuestion(cmd.Context(), question, askTopK)
	return &domain.AnswerResult{
		Success: resp.Success,
		Answer:  resp.Answer,
		Sources: resp.Sources,
		Error:   resp.Error,
	}
}

func askLocal(cmd *cobra.Command, question string) (*domain.AnswerResult, error) {
	ctx := cmd.Context()
	engine, settings, err := openEngine(ctx, EngineOptions{}, nil)
	if err != nil {
		return nil, err
	}
	defer shutdown(ctx, engine)

	topK := askTopK
	if topK == 0 {
		topK = settings.Retrieval.TopK
	}
	result, err := engine.GenerateAnswer(ctx, question, topK)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, fmt.Errorf("invalid question: %w", err)
		}
		return nil, fmt.Errorf("ask failed: %w", err)
	}
	return result, nil
}
