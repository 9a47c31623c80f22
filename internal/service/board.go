// Package service provides the board relay business flow: configuration
// guard, payload validation and the single upstream call.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/savingsboard/internal/config"
	"github.com/atinyakov/savingsboard/internal/models"
	"github.com/atinyakov/savingsboard/internal/observability/metrics"
	"github.com/atinyakov/savingsboard/internal/relay"
	"github.com/atinyakov/savingsboard/internal/validator"
)

// Fixed response texts.
const (
	MissingURLError   = "Missing webhook URL environment variable."
	MissingURLDetails = "Set " + config.EnvWebhookURL + " (preferred) or " + config.EnvPublicAPIURL + "."
	InvalidJSONError  = "Invalid JSON body."
	InvalidPayload    = "Invalid payload."
	StatusMessage     = "API route is live. Use POST /api/board for actions."
)

// Pre-relay outcomes, alongside relay.Outcome values.
const (
	outcomeMisconfigured  = "misconfigured"
	outcomeInvalidJSON    = "invalid_json"
	outcomeInvalidPayload = "invalid_payload"
)

// Upstream defines the single call the service makes per action.
type Upstream interface {
	// Forward posts body upstream and returns the mapped reply.
	Forward(ctx context.Context, body []byte) (models.Reply, relay.Outcome)
}

// BoardService validates board actions and relays them upstream.
type BoardService struct {
	upstream  Upstream
	hasURL    bool
	hasSecret bool
	log       *zap.Logger
}

// NewBoardService constructs a BoardService. options decides whether the
// webhook is configured; upstream is never called when it is not.
func NewBoardService(upstream Upstream, options *config.Options, log *zap.Logger) *BoardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BoardService{
		upstream:  upstream,
		hasURL:    options.WebhookURL != "",
		hasSecret: options.WebhookSecret != "",
		log:       log,
	}
}

// Status reports liveness and configuration presence without any network call.
func (s *BoardService) Status() models.Status {
	return models.Status{
		OK:               true,
		Message:          StatusMessage,
		HasAPIURL:        s.hasURL,
		HasWebhookSecret: s.hasSecret,
	}
}

// Dispatch runs one board action end to end. The body is not read when the
// webhook URL is missing, and nothing is forwarded unless the whole payload
// validates.
func (s *BoardService) Dispatch(ctx context.Context, body io.Reader) models.Reply {
	if !s.hasURL || s.upstream == nil {
		s.log.Error("missing webhook URL env")
		metrics.ObserveRelay("", outcomeMisconfigured, 0)
		return models.NewReply(http.StatusInternalServerError, models.Envelope{
			OK:      false,
			Error:   MissingURLError,
			Details: MissingURLDetails,
		})
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		s.log.Warn("read request body", zap.Error(err))
		metrics.ObserveRelay("", outcomeInvalidJSON, 0)
		return invalidJSON()
	}

	payload, err := validator.Parse(raw)
	var verr *validator.ValidationError
	switch {
	case errors.Is(err, validator.ErrMalformedJSON):
		metrics.ObserveRelay("", outcomeInvalidJSON, 0)
		return invalidJSON()
	case errors.As(err, &verr):
		s.log.Info("rejected board action", zap.Int("issues", len(verr.Issues)))
		metrics.ObserveRelay("", outcomeInvalidPayload, 0)
		return models.NewReply(http.StatusBadRequest, models.Envelope{
			OK:      false,
			Error:   InvalidPayload,
			Details: verr.Issues,
		})
	case err != nil:
		return invalidJSON()
	}

	outbound, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("encode payload", zap.Error(err))
		return models.NewReply(http.StatusInternalServerError, models.Envelope{OK: false, Error: "Failed to encode payload."})
	}

	start := time.Now()
	reply, outcome := s.upstream.Forward(ctx, outbound)
	elapsed := time.Since(start)
	metrics.ObserveRelay(string(payload.Action), string(outcome), elapsed)

	s.log.Info("board action relayed",
		zap.String("action", string(payload.Action)),
		zap.String("username", payload.Username),
		zap.Int("status", reply.Status),
		zap.String("outcome", string(outcome)),
		zap.Duration("duration", elapsed),
	)
	return reply
}

func invalidJSON() models.Reply {
	return models.NewReply(http.StatusBadRequest, models.Envelope{OK: false, Error: InvalidJSONError})
}
