// -----------------------------------------------------------------------------
// Purchase Result Model
// -----------------------------------------------------------------------------
// OperationTag names the pipeline stage that produced an outcome. The same tag
// is used in the returned PurchaseResult and in the log entries of that stage.
// -----------------------------------------------------------------------------

package models

import (
	"net/http"
	"time"
)

// OperationTag identifies a purchase pipeline stage.
type OperationTag string

const (
	OpValidateAccount OperationTag = "validateAccount"
	OpProcessTickets  OperationTag = "processTickets"
	OpValidateRules   OperationTag = "validateRules"
	OpProcessPayment  OperationTag = "processPayment"
	OpReserveSeats    OperationTag = "reserveSeats"
	OpPurchaseTickets OperationTag = "purchaseTickets"
)

const (
	TitleSuccess = "Success"
	TitleError   = "An error occured"

	DetailSuccess = "Tickets purchased successfully."
)

// PurchaseResult is the outcome of a purchase attempt. It is also the JSON
// body returned by the HTTP API.
type PurchaseResult struct {
	StatusCode int          `json:"statusCode"`
	Type       OperationTag `json:"type"`
	Title      string       `json:"title"`
	Detail     string       `json:"detail"`
}

// Success builds the successful purchase outcome.
func Success() PurchaseResult {
	return PurchaseResult{
		StatusCode: http.StatusOK,
		Type:       OpPurchaseTickets,
		Title:      TitleSuccess,
		Detail:     DetailSuccess,
	}
}

// Failure builds a failed outcome for the given stage.
func Failure(op OperationTag, message string) PurchaseResult {
	return PurchaseResult{
		StatusCode: http.StatusBadRequest,
		Type:       op,
		Title:      TitleError,
		Detail:     message,
	}
}

// IsSuccess reports whether the purchase went through.
func (r PurchaseResult) IsSuccess() bool {
	return r.StatusCode == http.StatusOK
}

// PurchaseSummary describes a completed purchase. It is the payload of the
// purchase.completed event.
type PurchaseSummary struct {
	PurchaseID    string       `json:"purchase_id"`
	AccountID     int64        `json:"account_id"`
	Tickets       TicketCounts `json:"tickets"`
	TotalCost     int          `json:"total_cost"`
	SeatsReserved int          `json:"seats_reserved"`
	CompletedAt   time.Time    `json:"completed_at"`
}

// PurchaseFailure describes a rejected purchase. It is the payload of the
// purchase.failed event.
type PurchaseFailure struct {
	PurchaseID string       `json:"purchase_id"`
	Operation  OperationTag `json:"operation"`
	Reason     string       `json:"reason"`
	FailedAt   time.Time    `json:"failed_at"`
}
