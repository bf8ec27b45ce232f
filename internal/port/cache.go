package port

import (
	"context"

	"github.com/okulova/allocation-engine/internal/domain"
)

// Cache holds the latest read-side snapshot of each book.
type Cache interface {
	SetBook(ctx context.Context, bookID int, snap *domain.BookSnapshot) error
	GetBook(ctx context.Context, bookID int) (*domain.BookSnapshot, error)
}
