package receivables

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Handler manages financeiro endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	reconciler *Reconciler
	validator  *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, reconciler *Reconciler) *Handler {
	return &Handler{logger: logger, service: service, reconciler: reconciler, validator: validator.New()}
}

// MountRoutes registers financeiro routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/export", h.exportCSV)
	r.Post("/reconciliar", h.reconcile)
	r.Get("/{id}", h.get)
	r.Put("/{id}/status", h.setStatus)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list financeiro", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"financeiro": views})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

type statusRequest struct {
	StatusFinanceiro StatusFinanceiro `json:"statusFinanceiro" validate:"required,oneof=Pendente Pago"`
	DataPagamento    string           `json:"dataPagamento" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	view, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.StatusFinanceiro, req.DataPagamento)
	if err != nil {
		h.logger.Error("set financeiro status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete financeiro", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	if err := h.reconciler.Run(r.Context()); err != nil {
		h.logger.Error("reconcile financeiro", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("export financeiro", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="financeiro.csv"`)
	if err := WriteFinanceiroCSV(w, views); err != nil {
		h.logger.Error("write financeiro csv", slog.Any("error", err))
	}
}
