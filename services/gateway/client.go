package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cineride/utils"

	"go.uber.org/zap"
)

// Package-level HTTP client for gateway dispatch calls.
var gatewayHTTPClient = &http.Client{Timeout: 5 * time.Second}

// HTTPDispatcher posts {intent, data} envelopes to the configured dispatch URL.
type HTTPDispatcher struct {
	url    string
	client *http.Client
}

// NewHTTPDispatcher creates a dispatcher against the given dispatch endpoint.
func NewHTTPDispatcher(url string) *HTTPDispatcher {
	return &HTTPDispatcher{url: url, client: gatewayHTTPClient}
}

type dispatchEnvelope struct {
	Intent string         `json:"intent"`
	Data   map[string]any `json:"data"`
}

// Dispatch performs one gateway operation. A transport failure, a non-OK
// status, or an "error" field in the result body all surface as errors; the
// caller decides whether the failed step is retryable.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, operation string, params map[string]any) (map[string]any, error) {
	logger := utils.GetLogger()

	if params == nil {
		params = map[string]any{}
	}
	payload, err := json.Marshal(dispatchEnvelope{Intent: operation, Data: params})
	if err != nil {
		return nil, fmt.Errorf("marshal dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Error("Failed to call gateway", zap.String("operation", operation), zap.Error(err))
		return nil, fmt.Errorf("call %s: %w", d.url, err)
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("Failed to decode gateway response", zap.String("operation", operation), zap.Error(err))
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Gateway returned non-OK status",
			zap.String("operation", operation), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("gateway %s returned status %d", operation, resp.StatusCode)
	}

	if msg, ok := result["error"]; ok {
		return nil, fmt.Errorf("gateway %s failed: %v", operation, msg)
	}
	return result, nil
}
