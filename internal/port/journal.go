package port

import (
	"context"

	"github.com/okulova/allocation-engine/internal/domain"
)

// Journal is a write-only audit trail of what the books accepted and
// allocated. The engine never reads it back: book state lives in memory
// for the lifetime of the process.
type Journal interface {
	RecordOrder(ctx context.Context, bookID int, o *domain.Order) error
	RecordExecution(ctx context.Context, bookID int, e *domain.Execution) error
	RecordAllocations(ctx context.Context, bookID int, orders []domain.Order) error
	Close(ctx context.Context)
}
