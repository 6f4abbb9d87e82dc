package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question about university regulations"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages to ground the answer on (default 10)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Success bool           `json:"success"`
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
	Error   string         `json:"error,omitempty"`
}

// SourceOutput cites one passage used for an answer.
type SourceOutput struct {
	Document string  `json:"document"`
	Category string  `json:"category"`
	Distance float64 `json:"distance"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the text to find relevant passages for"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 10)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput is one retrieved passage.
type PassageOutput struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Document string  `json:"document"`
	Category string  `json:"category"`
	Distance float64 `json:"distance"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed university regulations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the regulation passages closest to a question, most relevant first",
	}, s.handleRetrieve)
}

func topKOrDefault(k int) int {
	if k <= 0 {
		return domain.DefaultTopK
	}
	return k
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Answer.GenerateAnswer(ctx, input.Question, topKOrDefault(input.TopK))
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Success: result.Success,
		Answer:  result.Answer,
		Sources: make([]SourceOutput, len(result.Sources)),
		Error:   result.Error,
	}
	for i, src := range result.Sources {
		output.Sources[i] = SourceOutput(src)
	}
	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	result, err := s.ports.Retrieval.Retrieve(ctx, input.Question, topKOrDefault(input.TopK))
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(result.Passages)),
		Count:    len(result.Passages),
	}
	for i, p := range result.Passages {
		output.Passages[i] = PassageOutput{
			ID:       p.ID,
			Text:     p.Text,
			Document: p.Metadata.Document,
			Category: p.Metadata.Category,
			Distance: p.Distance,
		}
	}
	return nil, output, nil
}
