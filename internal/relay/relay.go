// Package relay forwards validated board actions to the upstream n8n webhook
// and maps the webhook's answer onto the /api/board response envelope.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/savingsboard/internal/models"
)

// SecretHeader carries the shared webhook secret.
const SecretHeader = "x-webhook-secret"

const (
	// MaxDetailLength caps the stringified upstream detail on failures.
	MaxDetailLength = 1200
	// maxUpstreamBody caps how much of the upstream answer is read.
	maxUpstreamBody = 8 << 20
)

// UnreachableMessage is returned when the webhook cannot be contacted.
const UnreachableMessage = "Could not reach n8n webhook."

// Outcome classifies a relayed call for metrics and logs.
type Outcome string

const (
	// OutcomeOK is a 2xx answer with a JSON body.
	OutcomeOK Outcome = "ok"
	// OutcomeRaw is a 2xx answer whose body was not JSON.
	OutcomeRaw Outcome = "raw"
	// OutcomeRejected is a non-2xx answer.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnreachable is a transport error or timeout.
	OutcomeUnreachable Outcome = "unreachable"
)

// Relay posts JSON bodies to a single webhook URL.
type Relay struct {
	url     string
	secret  string
	timeout time.Duration
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPClient returns the traced client used for upstream calls.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

// New constructs a Relay. A nil client uses NewHTTPClient and a nil logger
// discards output.
func New(url, secret string, timeout time.Duration, client *http.Client, log *zap.Logger) *Relay {
	if client == nil {
		client = NewHTTPClient()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{url: url, secret: secret, timeout: timeout, client: client, log: log}
}

// Forward sends body upstream exactly once and returns the mapped reply.
func (r *Relay) Forward(ctx context.Context, body []byte) (models.Reply, Outcome) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	status, text, err := r.post(ctx, body)
	if err != nil {
		r.log.Error("upstream unreachable", zap.Error(err))
		return models.NewReply(http.StatusBadGateway, models.Envelope{
			OK:      false,
			Error:   UnreachableMessage,
			Details: err.Error(),
		}), OutcomeUnreachable
	}

	isJSON := json.Valid(text)

	if status < 200 || status > 299 {
		msg := upstreamMessage(text, isJSON, status)
		r.log.Error("upstream error",
			zap.Int("status", status),
			zap.String("message", msg),
		)
		return models.NewReply(status, models.Envelope{
			OK:      false,
			Error:   msg,
			Details: truncate(upstreamDetails(text, isJSON), MaxDetailLength),
		}), OutcomeRejected
	}

	if isJSON {
		return models.Reply{Status: status, Body: text}, OutcomeOK
	}

	raw := string(text)
	return models.NewReply(bodyStatus(status), models.Envelope{OK: true, Raw: &raw}), OutcomeRaw
}

func (r *Relay) post(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.secret != "" {
		req.Header.Set(SecretHeader, r.secret)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return 0, nil, fmt.Errorf("read upstream body: %w", err)
	}
	return resp.StatusCode, text, nil
}

// upstreamMessage picks the error or message field of a JSON object body.
func upstreamMessage(text []byte, isJSON bool, status int) string {
	if isJSON {
		var obj map[string]any
		if json.Unmarshal(text, &obj) == nil {
			if s, ok := obj["error"].(string); ok {
				return s
			}
			if s, ok := obj["message"].(string); ok {
				return s
			}
		}
	}
	return fmt.Sprintf("Upstream n8n request failed with status %d.", status)
}

// upstreamDetails renders a failed body: a JSON string as its value, other
// JSON compacted, anything else verbatim.
func upstreamDetails(text []byte, isJSON bool) string {
	if !isJSON {
		return string(text)
	}
	var s string
	if trimmed := bytes.TrimSpace(text); len(trimmed) > 0 && trimmed[0] == '"' && json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, text); err != nil {
		return string(text)
	}
	return buf.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// bodyStatus replaces statuses that forbid a response body.
func bodyStatus(status int) int {
	switch status {
	case http.StatusNoContent, http.StatusResetContent, http.StatusNotModified:
		return http.StatusOK
	}
	return status
}
