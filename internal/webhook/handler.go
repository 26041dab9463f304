package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

// ServiceName labels health responses for this process.
const ServiceName = "rotacarga-webhook"

// ShipmentFinder matches a viagem by document reference.
type ShipmentFinder interface {
	FindByDocRef(ctx context.Context, ref string) (*shipments.ViagemView, error)
}

// Handler serves the provider webhook endpoints.
type Handler struct {
	logger      *slog.Logger
	finder      ShipmentFinder
	sender      Sender
	verifyToken string
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, finder ShipmentFinder, sender Sender, verifyToken string) *Handler {
	return &Handler{logger: logger, finder: finder, sender: sender, verifyToken: verifyToken}
}

// MountRoutes registers the webhook routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/webhook", h.verify)
	r.Post("/webhook", h.receive)
	r.Get("/health", h.health)
}

// verify answers the provider subscription handshake.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// receive handles an inbound event. Non-text or malformed payloads are
// acknowledged and ignored so the provider does not redeliver them forever;
// only unexpected internal failures answer 500.
func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var env Envelope
	if err := httpx.DecodeJSON(r, &env); err != nil {
		h.logger.Warn("webhook payload ignored", slog.Any("error", err))
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := env.FirstTextMessage()
	if msg == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	reply, err := h.replyFor(r.Context(), msg.Text.Body)
	if err != nil {
		h.logger.Error("webhook lookup", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.sender.SendText(r.Context(), msg.From, reply); err != nil {
		h.logger.Error("webhook reply", slog.String("to", msg.From), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) replyFor(ctx context.Context, body string) (string, error) {
	view, err := h.finder.FindByDocRef(ctx, body)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return NotFoundReply, nil
		}
		return "", err
	}
	return StatusReply(*view), nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true, "service": ServiceName})
}
