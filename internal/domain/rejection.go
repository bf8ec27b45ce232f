package domain

import "fmt"

// RejectionCode identifies why a book refused an operation. Rejections
// are policy outcomes, not faults: the book stays unchanged and valid.
type RejectionCode string

const (
	RejectOrderOnClosedBook        RejectionCode = "ORDER_ON_CLOSED_BOOK"
	RejectExecutionOnOpenBook      RejectionCode = "EXECUTION_ON_OPEN_BOOK"
	RejectExecutionOnProcessedBook RejectionCode = "EXECUTION_ON_PROCESSED_BOOK"
	RejectExecutionOverOffer       RejectionCode = "EXECUTION_OVER_OFFER"
	RejectExecutionPriceMismatch   RejectionCode = "EXECUTION_PRICE_MISMATCH"
	RejectBookAlreadyOpen          RejectionCode = "BOOK_ALREADY_OPEN"
	RejectBookAlreadyClosed        RejectionCode = "BOOK_ALREADY_CLOSED"
	RejectBookReopen               RejectionCode = "BOOK_REOPEN"
)

type Rejection struct {
	Code    RejectionCode
	Message string

	// MaxAcceptable is the biggest execution quantity the book could
	// still accept. Set only for RejectExecutionOverOffer.
	MaxAcceptable int64
}

func (r *Rejection) Error() string {
	return r.Message
}

func NewRejection(code RejectionCode, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

func NewOverOfferRejection(maxAcceptable, demand, currentOffer int64) *Rejection {
	return &Rejection{
		Code: RejectExecutionOverOffer,
		Message: fmt.Sprintf("it is not possible to offer more than %d (current demand %d, current total execution offer %d)",
			maxAcceptable, demand, currentOffer),
		MaxAcceptable: maxAcceptable,
	}
}
