package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderKind string

const (
	Market OrderKind = "MARKET"
	Limit  OrderKind = "LIMIT"
)

var (
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrNonPositivePrice    = errors.New("price must be positive")
)

// Order is a request for a quantity of a financial instrument. The kind
// is a closed tag: a market order is always valid, a limit order becomes
// valid or invalid once the book's execution price is known.
type Order struct {
	ID                string
	Kind              OrderKind
	RequestedQuantity int64
	SatisfiedQuantity int64
	LimitPrice        decimal.Decimal // zero for market orders
	Valid             bool
	EntryDate         time.Time
}

func NewMarketOrder(requestedQuantity int64) (*Order, error) {
	if requestedQuantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	return &Order{
		ID:                uuid.NewString(),
		Kind:              Market,
		RequestedQuantity: requestedQuantity,
		Valid:             true,
		EntryDate:         time.Now(),
	}, nil
}

func NewLimitOrder(requestedQuantity int64, limitPrice decimal.Decimal) (*Order, error) {
	if requestedQuantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	if !limitPrice.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	return &Order{
		ID:                uuid.NewString(),
		Kind:              Limit,
		RequestedQuantity: requestedQuantity,
		LimitPrice:        limitPrice,
		EntryDate:         time.Now(),
	}, nil
}

// Revalidate recomputes validity against the book's execution price.
// Market orders never change; limit orders are valid while their limit
// price meets or exceeds the execution price.
func (o *Order) Revalidate(executionPrice decimal.Decimal) {
	if o.Kind != Limit {
		return
	}
	o.Valid = o.LimitPrice.GreaterThanOrEqual(executionPrice)
}

func (o *Order) FullySatisfied() bool {
	return o.SatisfiedQuantity == o.RequestedQuantity
}
