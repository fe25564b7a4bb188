package services

import (
	"context"

	"github.com/biyonik/cinema-ticket-service/pkg/events"
)

// PaymentService charges an account. Amounts are whole pounds.
type PaymentService interface {
	MakePayment(ctx context.Context, accountID int64, amount int) error
}

// SeatReservationService reserves seats for an account.
type SeatReservationService interface {
	ReserveSeat(ctx context.Context, accountID int64, seats int) error
}

// EventDispatcher is the part of *events.Dispatcher the purchase pipeline
// needs. Listeners run off the request path.
type EventDispatcher interface {
	DispatchAsync(event events.Event)
}
