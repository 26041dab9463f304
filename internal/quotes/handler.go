package quotes

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// PDFRenderer converts HTML into PDF bytes. Satisfied by report.Client.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// Handler manages cotação endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	pdf       PDFRenderer
	validator *validator.Validate
}

// NewHandler builds a Handler instance. pdf may be nil when no Gotenberg
// instance is configured; the PDF endpoint then answers 502.
func NewHandler(logger *slog.Logger, service *Service, pdf PDFRenderer) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf, validator: validator.New()}
}

// MountRoutes registers cotação routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/rota", h.planRoute)
	r.Get("/export", h.exportCSV)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/aprovar", h.approve)
	r.Get("/{id}/mensagem", h.message)
	r.Get("/{id}/imprimir", h.print)
	r.Get("/{id}/pdf", h.pdfDownload)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list cotacoes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cotacoes": quotes})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CotacaoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Save(r.Context(), req.ToCotacao(""))
	if err != nil {
		h.logger.Error("create cotacao", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req CotacaoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.Save(r.Context(), req.ToCotacao(chi.URLParam(r, "id")))
	if err != nil {
		h.logger.Error("update cotacao", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	approved, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("approve cotacao", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, approved)
}

func (h *Handler) planRoute(w http.ResponseWriter, r *http.Request) {
	var req RoutePlanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	plan, err := h.service.PlanRoute(r.Context(), req.Origem, req.CidadesEntrega)
	if err != nil {
		h.logger.Error("plan route", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, plan)
}

func (h *Handler) message(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"mensagem": Message(*quote)})
}

func (h *Handler) print(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := WritePrintHTML(w, *quote); err != nil {
		h.logger.Error("render cotacao html", slog.Any("error", err))
	}
}

func (h *Handler) pdfDownload(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.Problem(w, http.StatusBadGateway, "PDF indisponível", "nenhum serviço de conversão configurado")
		return
	}
	quote, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := WritePrintHTML(&buf, *quote); err != nil {
		h.logger.Error("render cotacao html", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderPDF(r.Context(), buf.Bytes())
	if err != nil {
		h.logger.Error("render cotacao pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "PDF indisponível", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cotacao-%s.pdf"`, quote.NumeroCotacao))
	_, _ = w.Write(pdf)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("export cotacoes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cotacoes.csv"`)
	if err := WriteCotacoesCSV(w, quotes); err != nil {
		h.logger.Error("write cotacoes csv", slog.Any("error", err))
	}
}
