// Package http provides the HTTP handlers for the board relay endpoint.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/atinyakov/savingsboard/internal/models"
)

// maxBodyBytes bounds an inbound action body.
const maxBodyBytes = 1 << 20

// BoardService defines the operations required by the BoardHandler.
type BoardService interface {
	// Status reports liveness and configuration presence.
	// It must not call the upstream webhook.
	Status() models.Status
	// Dispatch validates the action read from body, relays it upstream
	// and returns the response to send back.
	Dispatch(ctx context.Context, body io.Reader) models.Reply
}

// BoardHandler handles GET and POST on /api/board.
type BoardHandler struct {
	// BoardService performs validation and relaying.
	BoardService BoardService
}

// Status handles GET /api/board.
// It always answers 200 with the liveness object.
func (h *BoardHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.BoardService.Status())
}

// Action handles POST /api/board.
// It expects a JSON body with an "action" discriminator and answers with
// the relayed upstream status and body, or a local error envelope.
func (h *BoardHandler) Action(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	reply := h.BoardService.Dispatch(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(reply.Status)
	_, _ = w.Write(reply.Body)
}
