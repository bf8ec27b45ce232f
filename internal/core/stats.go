package core

import (
	"github.com/shopspring/decimal"

	"github.com/okulova/allocation-engine/internal/domain"
)

func (b *OrderBook) TotalOrders() int {
	return len(b.orders)
}

// Demand is the sum of requested quantities over every order in the
// book, valid or not.
func (b *OrderBook) Demand() int64 {
	var demand int64
	for _, o := range b.orders {
		demand += o.RequestedQuantity
	}
	return demand
}

func (b *OrderBook) DemandOfValidOrders() int64 {
	var demand int64
	for _, o := range b.orders {
		if o.Valid {
			demand += o.RequestedQuantity
		}
	}
	return demand
}

func (b *OrderBook) DemandOfInvalidOrders() int64 {
	var demand int64
	for _, o := range b.orders {
		if !o.Valid {
			demand += o.RequestedQuantity
		}
	}
	return demand
}

func (b *OrderBook) ValidOrderCount() int {
	n := 0
	for _, o := range b.orders {
		if o.Valid {
			n++
		}
	}
	return n
}

func (b *OrderBook) InvalidOrderCount() int {
	return len(b.orders) - b.ValidOrderCount()
}

// BiggestOrder returns the order with the largest requested quantity;
// on ties the first-inserted order wins.
func (b *OrderBook) BiggestOrder() *domain.Order {
	if len(b.orders) == 0 {
		return nil
	}
	biggest := b.orders[0]
	for _, o := range b.orders[1:] {
		if o.RequestedQuantity > biggest.RequestedQuantity {
			biggest = o
		}
	}
	cp := *biggest
	return &cp
}

// SmallestOrder returns the order with the smallest requested quantity;
// on ties the first-inserted order wins.
func (b *OrderBook) SmallestOrder() *domain.Order {
	if len(b.orders) == 0 {
		return nil
	}
	smallest := b.orders[0]
	for _, o := range b.orders[1:] {
		if o.RequestedQuantity < smallest.RequestedQuantity {
			smallest = o
		}
	}
	cp := *smallest
	return &cp
}

func (b *OrderBook) EarliestOrder() *domain.Order {
	if len(b.orders) == 0 {
		return nil
	}
	earliest := b.orders[0]
	for _, o := range b.orders[1:] {
		if o.EntryDate.Before(earliest.EntryDate) {
			earliest = o
		}
	}
	cp := *earliest
	return &cp
}

// LatestOrder returns the order with the latest entry date. Orders
// created back to back can share a timestamp; on an exact tie the
// later-inserted order wins.
func (b *OrderBook) LatestOrder() *domain.Order {
	if len(b.orders) == 0 {
		return nil
	}
	latest := b.orders[0]
	for _, o := range b.orders[1:] {
		if !o.EntryDate.Before(latest.EntryDate) {
			latest = o
		}
	}
	cp := *latest
	return &cp
}

func (b *OrderBook) MarketOrders() []domain.Order {
	return b.ordersOfKind(domain.Market)
}

func (b *OrderBook) LimitOrders() []domain.Order {
	return b.ordersOfKind(domain.Limit)
}

func (b *OrderBook) ordersOfKind(kind domain.OrderKind) []domain.Order {
	var out []domain.Order
	for _, o := range b.orders {
		if o.Kind == kind {
			out = append(out, *o)
		}
	}
	return out
}

// DemandPerLimitPrice groups the limit orders' demand by limit price.
// Keys are the decimal string form of the price.
func (b *OrderBook) DemandPerLimitPrice() map[string]int64 {
	byPrice := make(map[string]int64)
	for _, o := range b.orders {
		if o.Kind == domain.Limit {
			byPrice[o.LimitPrice.String()] += o.RequestedQuantity
		}
	}
	return byPrice
}

// BookStatistics is the aggregate read model the statistics collaborator
// renders. It is computed from accessors only and never mutates the book.
type BookStatistics struct {
	Instrument            domain.Instrument
	TotalOrders           int
	ValidOrders           int
	InvalidOrders         int
	Demand                int64
	DemandOfValidOrders   int64
	DemandOfInvalidOrders int64
	BiggestOrder          *domain.Order
	SmallestOrder         *domain.Order
	EarliestOrder         *domain.Order
	LatestOrder           *domain.Order
	DemandPerLimitPrice   map[string]int64
	TotalExecutionOffer   int64
	ExecutionPrice        decimal.Decimal
	Open                  bool
	Processed             bool
}

func (b *OrderBook) Statistics() BookStatistics {
	return BookStatistics{
		Instrument:            b.instrument,
		TotalOrders:           b.TotalOrders(),
		ValidOrders:           b.ValidOrderCount(),
		InvalidOrders:         b.InvalidOrderCount(),
		Demand:                b.Demand(),
		DemandOfValidOrders:   b.DemandOfValidOrders(),
		DemandOfInvalidOrders: b.DemandOfInvalidOrders(),
		BiggestOrder:          b.BiggestOrder(),
		SmallestOrder:         b.SmallestOrder(),
		EarliestOrder:         b.EarliestOrder(),
		LatestOrder:           b.LatestOrder(),
		DemandPerLimitPrice:   b.DemandPerLimitPrice(),
		TotalExecutionOffer:   b.TotalExecutionOffer(),
		ExecutionPrice:        b.ExecutionPrice(),
		Open:                  b.open,
		Processed:             b.processed,
	}
}

// OrderReport is the per-order read model: validity, the quantity the
// order actually obtained, and its cost. Unit price and cost stay zero
// until the book is processed.
type OrderReport struct {
	OrderID           string
	Valid             bool
	SatisfiedQuantity int64
	UnitPrice         decimal.Decimal
	TotalCost         decimal.Decimal
	Processed         bool
}

func (b *OrderBook) ReportFor(orderID string) (OrderReport, bool) {
	o, ok := b.OrderByID(orderID)
	if !ok {
		return OrderReport{}, false
	}
	r := OrderReport{
		OrderID:           o.ID,
		Valid:             o.Valid,
		SatisfiedQuantity: o.SatisfiedQuantity,
		UnitPrice:         decimal.Zero,
		TotalCost:         decimal.Zero,
		Processed:         b.processed,
	}
	if b.processed {
		r.UnitPrice = b.ExecutionPrice()
		r.TotalCost = b.ExecutionPrice().Mul(decimal.NewFromInt(o.SatisfiedQuantity))
	}
	return r, true
}
