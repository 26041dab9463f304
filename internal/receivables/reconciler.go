package receivables

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rotacarga/rotacarga/internal/shipments"
)

// ShipmentSource exposes the live viagem set with derived group statuses.
// Satisfied by the shipments service.
type ShipmentSource interface {
	ListViews(ctx context.Context) ([]shipments.ViagemView, error)
	Get(ctx context.Context, id string) (*shipments.ViagemView, error)
}

// Reconciler keeps the financeiro set eventually consistent with the viagem
// set. It is level triggered: each run reads the whole live set and upserts
// every mirror, so a missed notification is repaired by the next run.
type Reconciler struct {
	source ShipmentSource
	repo   RepositoryPort
	logger *slog.Logger
}

// NewReconciler builds a Reconciler instance.
func NewReconciler(source ShipmentSource, repo RepositoryPort, logger *slog.Logger) *Reconciler {
	return &Reconciler{source: source, repo: repo, logger: logger}
}

// Run reconciles every viagem. Per-item failures are logged and skipped so
// one bad record never blocks the rest; only a failure to read the viagem
// set aborts the pass.
func (r *Reconciler) Run(ctx context.Context) error {
	views, err := r.source.ListViews(ctx)
	if err != nil {
		return err
	}

	var failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, view := range views {
		g.Go(func() error {
			if err := r.repo.Upsert(ctx, FromViagem(view)); err != nil {
				failed.Add(1)
				r.logger.Warn("reconcile financeiro",
					slog.String("viagem", view.ID),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		r.logger.Warn("reconcile pass finished with failures",
			slog.Int64("failed", n),
			slog.Int("total", len(views)),
		)
	}
	return nil
}

// ReconcileOne mirrors a single viagem, used on change notifications.
func (r *Reconciler) ReconcileOne(ctx context.Context, viagemID string) error {
	view, err := r.source.Get(ctx, viagemID)
	if err != nil {
		return err
	}
	return r.repo.Upsert(ctx, FromViagem(*view))
}
