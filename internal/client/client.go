// Package client talks to a running yonerge HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/logger"
)

const (
	// DefaultBaseURL is where `yonerge serve` listens by default.
	DefaultBaseURL = "http://" + domain.DefaultServerAddr

	// DefaultTimeout allows for slow generation.
	DefaultTimeout = 60 * time.Second

	// UnavailableAnswer is shown when the API answers with an error status.
	UnavailableAnswer = "Üzgünüm, şu anda cevap veremiyorum. Lütfen daha sonra tekrar deneyin."

	// ConnectionFailedAnswer is shown when the API cannot be reached.
	ConnectionFailedAnswer = "Bağlantı hatası. Backend çalışıyor mu kontrol edin."
)

// ChatRequest is the body of POST /ask.
type ChatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// ChatResponse is the body returned by POST /ask.
type ChatResponse struct {
	Success bool               `json:"success"`
	Answer  string             `json:"answer"`
	Sources []domain.SourceRef `json:"sources"`
	Error   string             `json:"error,omitempty"`
}

// StatsResponse is the body returned by GET /stats.
type StatsResponse struct {
	TotalDocuments int    `json:"total_documents"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
	GeminiModel    string `json:"gemini_model"`
}

// Client calls the ask API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AskQuestion asks the API. It never fails: transport and status errors are
// reported inside the response with a user-facing answer.
func (c *Client) AskQuestion(ctx context.Context, question string, topK int) *ChatResponse {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	body, err := json.Marshal(ChatRequest{Question: question, TopK: topK})
	if err != nil {
		return connectionFailed(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return connectionFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("calling yonerge API: %v", err)
		return connectionFailed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("API error: %s", resp.Status)
		return &ChatResponse{
			Success: false,
			Answer:  UnavailableAnswer,
			Sources: []domain.SourceRef{},
			Error:   fmt.Sprintf("API hatası: %s", resp.Status),
		}
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return connectionFailed(fmt.Errorf("decoding response: %w", err))
	}
	if out.Sources == nil {
		out.Sources = []domain.SourceRef{}
	}
	return &out
}

func connectionFailed(err error) *ChatResponse {
	return &ChatResponse{
		Success: false,
		Answer:  ConnectionFailedAnswer,
		Sources: []domain.SourceRef{},
		Error:   err.Error(),
	}
}

// CheckHealth reports whether GET /health succeeds.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Stats fetches GET /stats.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API hatası: %s", resp.Status)
	}
	var out StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding stats: %w", err)
	}
	return &out, nil
}
