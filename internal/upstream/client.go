// Package upstream contains the HTTP clients for the external collaborators:
// the auth/user backend, the doctor directory, the consultation backend, the
// pharmacy inventory backend and the AI symptom service. Transport failures
// are classified so callers can distinguish "no response at all" from "the
// server said no".
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medibridge/backend/pkg/apperr"
	"go.uber.org/zap"
)

// baseClient carries the shared request plumbing for all collaborator clients
type baseClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func newBaseClient(baseURL string, timeout time.Duration, logger *zap.Logger) baseClient {
	return baseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// errorBody is the shape most collaborators use for error responses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	if b.Error != "" {
		return b.Error
	}
	return b.Detail
}

// doJSON issues one JSON request and decodes the response into out (when out
// is non-nil). A transport failure becomes NetworkUnreachableError; an error
// status becomes ServerRejectedError carrying the server's own message.
func (c *baseClient) doJSON(ctx context.Context, method, path string, headers map[string]string, body, out interface{}, op string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request got no response",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &apperr.NetworkUnreachableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.NetworkUnreachableError{Op: op, Err: err}
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return &apperr.ServerRejectedError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: eb.text(),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
	}

	return nil
}
