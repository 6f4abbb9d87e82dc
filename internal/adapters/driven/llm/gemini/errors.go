package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// classify maps API status codes onto domain errors so callers can tell
// quota exhaustion from bad credentials.
func classify(status int, body []byte) error {
	msg := string(body)
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("gemini: %w: %s", domain.ErrRateLimited, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("gemini: %w: %s", domain.ErrLLMUnavailable, msg)
	case http.StatusNotFound:
		return fmt.Errorf("gemini: %w: %s", domain.ErrNotFound, msg)
	default:
		return fmt.Errorf("gemini: API returned status %d: %s", status, msg)
	}
}
