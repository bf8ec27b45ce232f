package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okulova/allocation-engine/internal/domain"
	"github.com/okulova/allocation-engine/internal/port"
)

var _ port.Journal = (*Journal)(nil)

// Journal writes the audit trail to Postgres. It is append-only: the
// engine never queries it, so a restart starts from empty books.
type Journal struct {
	pool *pgxpool.Pool
}

// call Close when finished working with the database.
func NewJournal(ctx context.Context, dsn string) (*Journal, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &Journal{pool: pool}, nil
}

func (j *Journal) Close(ctx context.Context) {
	if j.pool != nil {
		j.pool.Close()
	}
}

func (j *Journal) RecordOrder(ctx context.Context, bookID int, o *domain.Order) error {
	if o == nil {
		return errors.New("nil order")
	}
	_, err := j.pool.Exec(ctx, `
INSERT INTO orders(id, book_id, kind, requested_quantity, limit_price, valid, entry_date)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING
`, o.ID, bookID, string(o.Kind), o.RequestedQuantity, o.LimitPrice, o.Valid, o.EntryDate)
	return err
}

func (j *Journal) RecordExecution(ctx context.Context, bookID int, e *domain.Execution) error {
	if e == nil {
		return errors.New("nil execution")
	}
	_, err := j.pool.Exec(ctx, `
INSERT INTO executions(id, book_id, offered_quantity, unit_price, received_at)
VALUES($1,$2,$3,$4,$5)
ON CONFLICT (id) DO NOTHING
`, e.ID, bookID, e.OfferedQuantity, e.UnitPrice, e.ReceivedAt)
	return err
}

// RecordAllocations stores the post-processing satisfied quantities of
// a whole book in one transaction, so the audit trail never shows a
// half-written distribution.
func (j *Journal) RecordAllocations(ctx context.Context, bookID int, orders []domain.Order) error {
	tx, err := j.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	for _, o := range orders {
		if _, err := tx.Exec(ctx, `
INSERT INTO allocations(order_id, book_id, satisfied_quantity, valid)
VALUES($1,$2,$3,$4)
ON CONFLICT (order_id) DO UPDATE SET
  satisfied_quantity = EXCLUDED.satisfied_quantity,
  valid = EXCLUDED.valid
`, o.ID, bookID, o.SatisfiedQuantity, o.Valid); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
