package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	Limit  OrderType = "LIMIT"
	Market OrderType = "MARKET"
)

type CreateBookRequest struct {
	InstrumentName string `json:"instrument_name" binding:"required"`
}

type CreateBookResponse struct {
	BookID       int    `json:"book_id"`
	InstrumentID string `json:"instrument_id"`
}

type AddOrderRequest struct {
	Type       OrderType       `json:"type" binding:"required"`
	Quantity   int64           `json:"quantity" binding:"required"`
	LimitPrice decimal.Decimal `json:"limit_price,omitempty"` // required for LIMIT
}

type AddOrderResponse struct {
	OrderID string `json:"order_id"`
	Message string `json:"message,omitempty"`
}

type AddExecutionRequest struct {
	Quantity  int64           `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

type AddExecutionResponse struct {
	ExecutionID string `json:"execution_id"`
	// Processed reports whether this execution tipped the book into
	// automatic distribution.
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// RejectionResponse renders a policy rejection from the engine.
type RejectionResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	MaxAcceptable *int64 `json:"max_acceptable,omitempty"`
}

type Order struct {
	ID                string          `json:"id"`
	Type              OrderType       `json:"type"`
	RequestedQuantity int64           `json:"requested_quantity"`
	SatisfiedQuantity int64           `json:"satisfied_quantity"`
	LimitPrice        decimal.Decimal `json:"limit_price,omitempty"`
	Valid             bool            `json:"valid"`
	EntryDate         time.Time       `json:"entry_date"`
}

type Execution struct {
	ID              string          `json:"id"`
	OfferedQuantity int64           `json:"offered_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ReceivedAt      time.Time       `json:"received_at"`
}

type BookSummary struct {
	BookID         int    `json:"book_id"`
	InstrumentName string `json:"instrument_name"`
	Open           bool   `json:"open"`
	Processed      bool   `json:"processed"`
	Orders         int    `json:"orders"`
}

type ListBooksResponse struct {
	Books []BookSummary `json:"books"`
}

type BookResponse struct {
	BookID         int         `json:"book_id"`
	InstrumentName string      `json:"instrument_name"`
	Open           bool        `json:"open"`
	OpenedOnce     bool        `json:"opened_once"`
	Processed      bool        `json:"processed"`
	Orders         []Order     `json:"orders"`
	Executions     []Execution `json:"executions"`
	Timestamp      time.Time   `json:"timestamp"`
}

type StatisticsResponse struct {
	InstrumentName        string           `json:"instrument_name"`
	TotalOrders           int              `json:"total_orders"`
	ValidOrders           int              `json:"valid_orders"`
	InvalidOrders         int              `json:"invalid_orders"`
	Demand                int64            `json:"demand"`
	DemandOfValidOrders   int64            `json:"demand_of_valid_orders"`
	DemandOfInvalidOrders int64            `json:"demand_of_invalid_orders"`
	BiggestOrder          *Order           `json:"biggest_order,omitempty"`
	SmallestOrder         *Order           `json:"smallest_order,omitempty"`
	EarliestOrder         *Order           `json:"earliest_order,omitempty"`
	LatestOrder           *Order           `json:"latest_order,omitempty"`
	DemandPerLimitPrice   map[string]int64 `json:"demand_per_limit_price"`
	TotalExecutionOffer   int64            `json:"total_execution_offer"`
	ExecutionPrice        decimal.Decimal  `json:"execution_price"`
	Open                  bool             `json:"open"`
	Processed             bool             `json:"processed"`
}

type OrderReportResponse struct {
	OrderID           string          `json:"order_id"`
	Valid             bool            `json:"valid"`
	SatisfiedQuantity int64           `json:"satisfied_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	Processed         bool            `json:"processed"`
}
