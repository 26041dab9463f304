package jobs

import (
	"context"
	"log/slog"
)

// ChangeNotifier enqueues a mirror sync for every shipment change. Enqueue
// failures are logged only; the scheduled full pass covers the gap.
type ChangeNotifier struct {
	client *Client
	logger *slog.Logger
}

// NewChangeNotifier builds a notifier backed by the jobs client.
func NewChangeNotifier(client *Client, logger *slog.Logger) *ChangeNotifier {
	return &ChangeNotifier{client: client, logger: logger}
}

// ShipmentChanged enqueues the sync task for one viagem.
func (n *ChangeNotifier) ShipmentChanged(ctx context.Context, viagemID string) {
	if n == nil || n.client == nil {
		return
	}
	if _, err := n.client.EnqueueSyncViagem(ctx, viagemID); err != nil {
		n.logger.Warn("enqueue viagem sync",
			slog.String("viagem", viagemID),
			slog.Any("error", err),
		)
	}
}
