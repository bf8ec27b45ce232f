package core

import (
	"github.com/shopspring/decimal"

	"github.com/okulova/allocation-engine/internal/domain"
)

// distribute assigns one execution's offered quantity across the valid
// orders, proportionally to each order's requested quantity.
//
// The proportional pass divides by the demand of ALL orders, valid or
// not, exactly as acceptance does; the remainder pass then waterfills
// one unit at a time in insertion order. Allocation accumulates across
// executions: each pass adds to whatever earlier executions already
// satisfied, and an order never exceeds its requested quantity.
func (b *OrderBook) distribute(e *domain.Execution, validOrders []*domain.Order) {
	remaining := e.OfferedQuantity
	demand := decimal.NewFromInt(b.Demand())
	offer := decimal.NewFromInt(e.OfferedQuantity)

	for _, o := range validOrders {
		requested := decimal.NewFromInt(o.RequestedQuantity)
		// floor, because units cannot be divided
		share := requested.Mul(offer).Div(demand).Floor().IntPart()
		if headroom := o.RequestedQuantity - o.SatisfiedQuantity; share > headroom {
			share = headroom
		}
		o.SatisfiedQuantity += share
		remaining -= share
	}

	// Round-robin over the same stable order: earlier-inserted orders
	// pick up the leftover units first. The offer may exceed the valid
	// demand (acceptance bounds it by the all-orders demand), so the
	// sweep stops once no order can take another unit.
	for remaining > 0 {
		progressed := false
		for _, o := range validOrders {
			if remaining == 0 {
				break
			}
			if o.FullySatisfied() {
				continue
			}
			o.SatisfiedQuantity++
			remaining--
			progressed = true
		}
		if !progressed {
			break
		}
	}
}
