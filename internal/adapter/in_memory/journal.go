package in_memory

import (
	"context"
	"sync"

	"github.com/okulova/allocation-engine/internal/domain"
	"github.com/okulova/allocation-engine/internal/port"
)

var _ port.Journal = (*Journal)(nil)

// Journal keeps the audit trail in process memory. Used when no
// Postgres DSN is configured, and in tests.
type Journal struct {
	mu          sync.Mutex
	orders      map[int][]domain.Order
	executions  map[int][]domain.Execution
	allocations map[int][]domain.Order
}

func NewJournal() *Journal {
	return &Journal{
		orders:      make(map[int][]domain.Order),
		executions:  make(map[int][]domain.Execution),
		allocations: make(map[int][]domain.Order),
	}
}

func (j *Journal) RecordOrder(ctx context.Context, bookID int, o *domain.Order) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.orders[bookID] = append(j.orders[bookID], *o)
	return nil
}

func (j *Journal) RecordExecution(ctx context.Context, bookID int, e *domain.Execution) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.executions[bookID] = append(j.executions[bookID], *e)
	return nil
}

func (j *Journal) RecordAllocations(ctx context.Context, bookID int, orders []domain.Order) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.allocations[bookID] = append([]domain.Order(nil), orders...)
	return nil
}

func (j *Journal) Close(ctx context.Context) {}

// Allocations returns the last recorded distribution for a book.
func (j *Journal) Allocations(bookID int) []domain.Order {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.Order(nil), j.allocations[bookID]...)
}

// OrderCount reports how many orders were journaled for a book.
func (j *Journal) OrderCount(bookID int) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.orders[bookID])
}
