package analytics

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Handler serves the dashboard rollup.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Get("/export", h.export)
	r.Post("/invalidate", h.invalidate)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard rollup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("export dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.csv"`)
	if err := WriteDashboardCSV(w, d); err != nil {
		h.logger.Error("write dashboard csv", slog.Any("error", err))
	}
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate(r.Context())
	httpx.JSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}
