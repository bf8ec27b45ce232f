package core

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/okulova/allocation-engine/internal/domain"
)

// Contract violations, as opposed to policy rejections: a caller that
// hits one of these is misusing the book, not trading against it.
var (
	ErrProcessOpenBook      = errors.New("cannot process executions on an open book")
	ErrBookAlreadyProcessed = errors.New("book has already been processed")
	ErrNoExecutions         = errors.New("cannot process a book without executions")
)

// OrderBook owns the orders and executions for one instrument and is
// the only authority mutating them. A book starts closed, can be opened
// once, and after closing can never reopen. Orders enter only while the
// book is open, executions only while it is closed and unprocessed.
type OrderBook struct {
	instrument domain.Instrument

	open       bool
	openedOnce bool
	processed  bool

	orders     []*domain.Order
	executions []*domain.Execution
}

func NewOrderBook(instrument domain.Instrument) *OrderBook {
	return &OrderBook{instrument: instrument}
}

func (b *OrderBook) Open() error {
	if b.open {
		return domain.NewRejection(domain.RejectBookAlreadyOpen, "the book is already open")
	}
	if b.openedOnce {
		return domain.NewRejection(domain.RejectBookReopen, "a closed book cannot be reopened")
	}
	b.open = true
	b.openedOnce = true
	return nil
}

func (b *OrderBook) Close() error {
	if !b.open {
		return domain.NewRejection(domain.RejectBookAlreadyClosed, "the book is already closed")
	}
	b.open = false
	return nil
}

// AddOrder appends the order while the book is open, preserving
// insertion order. If an execution price is already fixed, a limit
// order is validated against it immediately.
func (b *OrderBook) AddOrder(o *domain.Order) error {
	if !b.open {
		return domain.NewRejection(domain.RejectOrderOnClosedBook,
			"it is not possible to add an order on a closed book")
	}
	if len(b.executions) > 0 {
		o.Revalidate(b.ExecutionPrice())
	}
	b.orders = append(b.orders, o)
	return nil
}

// AddExecution accepts a supply lot into a closed, unprocessed book.
// The first accepted execution fixes the book's execution price and
// triggers limit-order validation; every later execution must carry the
// same price. The cumulative offer can never exceed the demand of all
// orders. Once the cumulative offer equals the demand of the valid
// orders the book processes itself.
func (b *OrderBook) AddExecution(e *domain.Execution) error {
	if b.open {
		return domain.NewRejection(domain.RejectExecutionOnOpenBook,
			"it is not possible to add an execution on an open book")
	}
	if b.processed {
		return domain.NewRejection(domain.RejectExecutionOnProcessedBook,
			"it is not possible to add an execution when the book has already been processed")
	}
	if len(b.executions) > 0 && !e.UnitPrice.Equal(b.ExecutionPrice()) {
		return domain.NewRejection(domain.RejectExecutionPriceMismatch,
			"execution price "+e.UnitPrice.String()+" does not match the book execution price "+b.ExecutionPrice().String())
	}

	demand := b.Demand()
	currentOffer := b.TotalExecutionOffer()
	acceptable := demand - currentOffer
	if e.OfferedQuantity > acceptable {
		return domain.NewOverOfferRejection(acceptable, demand, currentOffer)
	}

	b.executions = append(b.executions, e)

	// All executions share one price, so only the first one decides
	// which limit orders are valid.
	if len(b.executions) == 1 {
		b.validateOrders()
	}

	if b.TotalExecutionOffer() == b.DemandOfValidOrders() {
		b.distributeAll()
	}
	return nil
}

// ProcessExecutions distributes every accepted execution, in acceptance
// order, across the valid orders. Callable only on a closed, not yet
// processed book holding at least one execution.
func (b *OrderBook) ProcessExecutions() error {
	if b.open {
		return ErrProcessOpenBook
	}
	if b.processed {
		return ErrBookAlreadyProcessed
	}
	if len(b.executions) == 0 {
		return ErrNoExecutions
	}
	b.distributeAll()
	return nil
}

func (b *OrderBook) distributeAll() {
	valid := b.validOrders()
	for _, e := range b.executions {
		b.distribute(e, valid)
	}
	b.processed = true
}

func (b *OrderBook) validateOrders() {
	price := b.ExecutionPrice()
	for _, o := range b.orders {
		o.Revalidate(price)
	}
}

func (b *OrderBook) validOrders() []*domain.Order {
	var valid []*domain.Order
	for _, o := range b.orders {
		if o.Valid {
			valid = append(valid, o)
		}
	}
	return valid
}

func (b *OrderBook) Instrument() domain.Instrument { return b.instrument }
func (b *OrderBook) IsOpen() bool                  { return b.open }
func (b *OrderBook) WasOpenedOnce() bool           { return b.openedOnce }
func (b *OrderBook) Processed() bool               { return b.processed }

// ExecutionPrice is the unit price shared by all accepted executions,
// zero while the book holds none.
func (b *OrderBook) ExecutionPrice() decimal.Decimal {
	if len(b.executions) == 0 {
		return decimal.Zero
	}
	return b.executions[0].UnitPrice
}

func (b *OrderBook) TotalExecutionOffer() int64 {
	var total int64
	for _, e := range b.executions {
		total += e.OfferedQuantity
	}
	return total
}

// Orders returns a copy of the order sequence in insertion order.
func (b *OrderBook) Orders() []domain.Order {
	out := make([]domain.Order, len(b.orders))
	for i, o := range b.orders {
		out[i] = *o
	}
	return out
}

// Executions returns a copy of the execution sequence in acceptance order.
func (b *OrderBook) Executions() []domain.Execution {
	out := make([]domain.Execution, len(b.executions))
	for i, e := range b.executions {
		out[i] = *e
	}
	return out
}

func (b *OrderBook) OrderByID(id string) (domain.Order, bool) {
	for _, o := range b.orders {
		if o.ID == id {
			return *o, true
		}
	}
	return domain.Order{}, false
}

func (b *OrderBook) Snapshot() *domain.BookSnapshot {
	return &domain.BookSnapshot{
		Instrument: b.instrument,
		Open:       b.open,
		OpenedOnce: b.openedOnce,
		Processed:  b.processed,
		Orders:     b.Orders(),
		Executions: b.Executions(),
	}
}
