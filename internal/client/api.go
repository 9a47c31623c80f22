// Package client is the terminal front-end of the savings board: the
// /api/board caller, the session file, feedback banners and the dashboard
// state that every view action updates.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/savingsboard/internal/models"
)

const (
	boardPath   = "/api/board"
	maxRawShown = 240
)

// RequestError is a failed /api/board call, worded for the error banner.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// APIClient posts board actions to the relay server.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient returns a client for baseURL. A nil client gets a 30s timeout,
// long enough to outlast the server's own upstream bound.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Call sends one action and returns the decoded envelope. Any non-JSON
// answer, non-2xx status or ok:false envelope is returned as *RequestError.
func (c *APIClient) Call(ctx context.Context, payload models.Payload) (*models.BoardResponse, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+boardPath, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", boardPath, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var data models.BoardResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Request failed (%d): %s", resp.StatusCode, head(string(raw), maxRawShown)),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !data.OK {
		msg := data.Error
		if msg == "" {
			msg = fmt.Sprintf("Request failed (%d)", resp.StatusCode)
		}
		if details, ok := data.Details.(string); ok && details != "" {
			msg += " - " + details
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}
	return &data, nil
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
