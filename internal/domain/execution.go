package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Execution is a supply lot sent by a broker. When the book is
// processed its offered quantity is distributed among the valid orders.
type Execution struct {
	ID              string
	OfferedQuantity int64
	UnitPrice       decimal.Decimal
	ReceivedAt      time.Time
}

func NewExecution(offeredQuantity int64, unitPrice decimal.Decimal) (*Execution, error) {
	if offeredQuantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	if !unitPrice.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	return &Execution{
		ID:              uuid.NewString(),
		OfferedQuantity: offeredQuantity,
		UnitPrice:       unitPrice,
		ReceivedAt:      time.Now(),
	}, nil
}
