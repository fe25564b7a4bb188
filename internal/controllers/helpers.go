package controllers

import (
	"context"
	"time"

	"github.com/biyonik/cinema-ticket-service/internal/models"
)

// TicketPurchaser runs a purchase. *services.PurchaseService implements it.
type TicketPurchaser interface {
	PurchaseTickets(ctx context.Context, accountID any, requests ...models.TicketTypeRequest) models.PurchaseResult
}

// TokenIssuer exchanges client credentials for a token. *auth.ClientGuard
// implements it.
type TokenIssuer interface {
	Authenticate(clientID, secret string) (string, time.Time, error)
}
