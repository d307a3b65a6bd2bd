package match

import "context"

// Writer persists one reconciled series. Implementations run the whole
// write in a single transaction, serialized per series.
type Writer interface {
	Reconcile(ctx context.Context, rec Reconciliation) (Match, error)
}

type Repository interface {
	Writer
	CountRows(ctx context.Context) (RowCounts, error)
}
