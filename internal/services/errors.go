package services

import "github.com/biyonik/cinema-ticket-service/internal/models"

// PurchaseViolation is raised by a pipeline stage that rejects a purchase.
// Operation is the stage tag reported back to the caller.
type PurchaseViolation struct {
	Operation models.OperationTag
	Message   string
}

func NewPurchaseViolation(op models.OperationTag, message string) *PurchaseViolation {
	return &PurchaseViolation{Operation: op, Message: message}
}

func (e *PurchaseViolation) Error() string {
	return string(e.Operation) + ": " + e.Message
}
