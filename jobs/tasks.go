// Package jobs runs the background work: the financeiro reconciliation pass
// and the per-viagem mirror sync triggered by shipment changes.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskFinanceiroReconcile runs a full reconciliation pass over the
	// viagem set. Scheduled periodically; level triggered, so missed
	// change notifications are repaired here.
	TaskFinanceiroReconcile = "financeiro:reconcile"
	// TaskFinanceiroSyncViagem mirrors a single viagem after a change.
	TaskFinanceiroSyncViagem = "financeiro:sync_viagem"
	// TaskFinanceiroOverdueScan reports unpaid receivables past their due
	// date. Vencido is derived at read time, so this task only surfaces
	// the totals, it writes nothing.
	TaskFinanceiroOverdueScan = "financeiro:overdue_scan"
)

// SyncViagemPayload names the viagem to mirror.
type SyncViagemPayload struct {
	ViagemID string `json:"viagemId"`
}

// NewReconcileTask constructs the full-pass reconciliation task.
func NewReconcileTask() *asynq.Task {
	return asynq.NewTask(TaskFinanceiroReconcile, nil)
}

// NewOverdueScanTask constructs the overdue receivables report task.
func NewOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TaskFinanceiroOverdueScan, nil)
}

// NewSyncViagemTask constructs a single-viagem sync task.
func NewSyncViagemTask(payload SyncViagemPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFinanceiroSyncViagem, data), nil
}
