package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rotacarga/rotacarga/internal/analytics"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
	"github.com/rotacarga/rotacarga/internal/receivables"
)

// NewReconcileHandler runs the full financeiro reconciliation pass and then
// invalidates the dashboard rollup.
func NewReconcileHandler(rec *receivables.Reconciler, dash *analytics.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		if err := rec.Run(ctx); err != nil {
			return err
		}
		if dash != nil {
			dash.Invalidate(ctx)
		}
		logger.Info("financeiro reconcile pass finished")
		return nil
	}
}

// NewOverdueScanHandler logs how many receivables are unpaid past their due
// date and how much money they hold, then refreshes the dashboard so the
// vencido counter stays current across day boundaries.
func NewOverdueScanHandler(svc *receivables.Service, dash *analytics.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		views, err := svc.List(ctx)
		if err != nil {
			return err
		}
		var vencidos int
		var total float64
		for _, v := range views {
			if v.Vencido {
				vencidos++
				total += v.ValorFrete
			}
		}
		if vencidos > 0 {
			logger.Warn("titulos vencidos",
				slog.Int("quantidade", vencidos),
				slog.Float64("valorTotal", total))
		} else {
			logger.Info("nenhum titulo vencido")
		}
		if dash != nil {
			dash.Invalidate(ctx)
		}
		return nil
	}
}

// NewSyncViagemHandler mirrors one viagem into its financeiro record. A
// viagem deleted between the notification and the task run is not an error;
// the receivable simply stops being refreshed.
func NewSyncViagemHandler(rec *receivables.Reconciler, dash *analytics.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SyncViagemPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := rec.ReconcileOne(ctx, payload.ViagemID); err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				logger.Info("viagem removida antes do sync", slog.String("viagem", payload.ViagemID))
			} else {
				return err
			}
		}
		if dash != nil {
			dash.Invalidate(ctx)
		}
		return nil
	}
}
