package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/biyonik/cinema-ticket-service/internal/models"
	"github.com/biyonik/cinema-ticket-service/internal/patterns/strategy"
	"github.com/biyonik/cinema-ticket-service/pkg/events"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
	v "github.com/biyonik/cinema-ticket-service/pkg/validation"
	"github.com/biyonik/cinema-ticket-service/pkg/validation/types"
)

const DefaultMaxTicketsPerPurchase = 25

const (
	msgInvalidAccount    = "Account ID must be a positive integer."
	msgNoTickets         = "No tickets requested."
	msgZeroTickets       = "Cannot purchase zero tickets."
	msgTooManyTickets    = "Cannot purchase more than %d tickets at once."
	msgInfantsNeedAdults = "Must have at least one adult per infant ticket."
	msgChildNeedsAdult   = "Children must be accompanied by at least one adult."
	msgPaymentFailed     = "Payment processing failed: %v"
	msgReservationFailed = "Seat reservation failed: %v"
)

// PurchaseRules holds the business limits of a single purchase.
type PurchaseRules struct {
	MaxTicketsPerPurchase int
}

func DefaultPurchaseRules() PurchaseRules {
	return PurchaseRules{MaxTicketsPerPurchase: DefaultMaxTicketsPerPurchase}
}

// PurchaseService validates and processes ticket purchases.
//
// A purchase runs through these stages, stopping at the first failure:
//
//	validateAccount -> processTickets -> validateRules -> processPayment -> reserveSeats
//
// Payment is taken before seats are reserved. A failed reservation does not
// refund the payment.
type PurchaseService struct {
	payments     PaymentService
	reservations SeatReservationService
	pricing      strategy.PricingStrategy
	rules        PurchaseRules
	logger       *logger.Logger
	dispatcher   EventDispatcher
	accountCheck v.Schema
}

// NewPurchaseService wires the pipeline. A nil pricing strategy falls back to
// the default price list, a non-positive ticket limit to 25 and a nil logger
// to a no-op one. dispatcher may be nil.
func NewPurchaseService(
	payments PaymentService,
	reservations SeatReservationService,
	pricing strategy.PricingStrategy,
	rules PurchaseRules,
	log *logger.Logger,
	dispatcher EventDispatcher,
) *PurchaseService {
	if pricing == nil {
		pricing = strategy.DefaultCategoryPricing()
	}
	if rules.MaxTicketsPerPurchase <= 0 {
		rules.MaxTicketsPerPurchase = DefaultMaxTicketsPerPurchase
	}
	if log == nil {
		log = logger.Nop()
	}

	return &PurchaseService{
		payments:     payments,
		reservations: reservations,
		pricing:      pricing,
		rules:        rules,
		logger:       log,
		dispatcher:   dispatcher,
		accountCheck: v.Make().Shape(map[string]v.Type{
			"account_id": types.Number().
				Required().
				Integer().
				Min(1).
				Label("Account ID"),
		}),
	}
}

// PurchaseTickets runs a purchase for accountID. It never panics and never
// returns an error: every failure is reported through the result.
func (s *PurchaseService) PurchaseTickets(ctx context.Context, accountID any, requests ...models.TicketTypeRequest) (result models.PurchaseResult) {
	purchaseID := uuid.NewString()
	log := s.logger.With("purchase_id", purchaseID)

	defer func() {
		if r := recover(); r != nil {
			result = s.fail(log, purchaseID, NewPurchaseViolation(models.OpPurchaseTickets, fmt.Sprintf("Unexpected error: %v", r)))
		}
	}()

	summary, err := s.process(ctx, log, accountID, requests)
	if err != nil {
		var violation *PurchaseViolation
		if !errors.As(err, &violation) {
			violation = NewPurchaseViolation(models.OpPurchaseTickets, err.Error())
		}
		return s.fail(log, purchaseID, violation)
	}

	summary.PurchaseID = purchaseID
	summary.CompletedAt = time.Now().UTC()

	logStage(log, models.OpPurchaseTickets, "Purchase completed",
		fmt.Sprintf("Account ID %d paid £%d for %d tickets.", summary.AccountID, summary.TotalCost, summary.Tickets.Total))

	result = models.Success()
	logResult(log, result)

	s.dispatch(log, events.NewPurchaseCompletedEvent(summary))
	return result
}

func (s *PurchaseService) process(ctx context.Context, log *logger.Logger, rawAccountID any, requests []models.TicketTypeRequest) (models.PurchaseSummary, error) {
	accountID, err := s.validateAccount(log, rawAccountID)
	if err != nil {
		return models.PurchaseSummary{}, err
	}

	counts, err := s.aggregateTickets(log, requests)
	if err != nil {
		return models.PurchaseSummary{}, err
	}

	if err := s.validateRules(counts); err != nil {
		return models.PurchaseSummary{}, err
	}

	total := s.calculateCost(log, counts)

	if err := s.makePayment(ctx, accountID, total); err != nil {
		return models.PurchaseSummary{}, err
	}

	seats := counts.SeatsRequired()
	if err := s.reserveSeats(ctx, accountID, seats); err != nil {
		return models.PurchaseSummary{}, err
	}
	logStage(log, models.OpReserveSeats, "Seats reserved",
		fmt.Sprintf("Reserved %d seats for account ID %d.", seats, accountID))

	return models.PurchaseSummary{
		AccountID:     accountID,
		Tickets:       counts,
		TotalCost:     total,
		SeatsReserved: seats,
	}, nil
}

func (s *PurchaseService) validateAccount(log *logger.Logger, rawAccountID any) (int64, error) {
	result := s.accountCheck.Validate(map[string]any{"account_id": rawAccountID})
	if result.HasErrors() {
		log.Debug("Account ID rejected", "errors", result.Errors())
		return 0, NewPurchaseViolation(models.OpValidateAccount, msgInvalidAccount)
	}

	accountID, ok := types.ToInt64(rawAccountID)
	if !ok {
		return 0, NewPurchaseViolation(models.OpValidateAccount, msgInvalidAccount)
	}

	logStage(log, models.OpValidateAccount, "Account validated",
		fmt.Sprintf("Account ID %d is valid.", accountID))
	return accountID, nil
}

func (s *PurchaseService) aggregateTickets(log *logger.Logger, requests []models.TicketTypeRequest) (models.TicketCounts, error) {
	if len(requests) == 0 {
		return models.TicketCounts{}, NewPurchaseViolation(models.OpProcessTickets, msgNoTickets)
	}
	counts := models.CountTickets(requests...)
	logStage(log, models.OpProcessTickets, "Tickets processed", counts.String())
	return counts, nil
}

// validateRules checks the counts in a fixed order; the first broken rule wins.
func (s *PurchaseService) validateRules(counts models.TicketCounts) error {
	switch {
	case counts.Total <= 0:
		return NewPurchaseViolation(models.OpValidateRules, msgZeroTickets)
	case counts.Total > s.rules.MaxTicketsPerPurchase:
		return NewPurchaseViolation(models.OpValidateRules, fmt.Sprintf(msgTooManyTickets, s.rules.MaxTicketsPerPurchase))
	case counts.Adults < counts.Infants:
		return NewPurchaseViolation(models.OpValidateRules, msgInfantsNeedAdults)
	case counts.Children > 0 && counts.Adults == 0:
		return NewPurchaseViolation(models.OpValidateRules, msgChildNeedsAdult)
	}
	return nil
}

func (s *PurchaseService) calculateCost(log *logger.Logger, counts models.TicketCounts) int {
	total := s.pricing.CalculateTotal(counts)
	logStage(log, models.OpProcessPayment, "Total cost calculated", fmt.Sprintf("Total cost: £%d.", total))
	return total
}

func (s *PurchaseService) makePayment(ctx context.Context, accountID int64, amount int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPurchaseViolation(models.OpProcessPayment, fmt.Sprintf(msgPaymentFailed, r))
		}
	}()

	if s.payments == nil {
		return NewPurchaseViolation(models.OpProcessPayment, fmt.Sprintf(msgPaymentFailed, "payment service unavailable"))
	}
	if err := s.payments.MakePayment(ctx, accountID, amount); err != nil {
		return NewPurchaseViolation(models.OpProcessPayment, fmt.Sprintf(msgPaymentFailed, err))
	}
	return nil
}

func (s *PurchaseService) reserveSeats(ctx context.Context, accountID int64, seats int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPurchaseViolation(models.OpReserveSeats, fmt.Sprintf(msgReservationFailed, r))
		}
	}()

	if s.reservations == nil {
		return NewPurchaseViolation(models.OpReserveSeats, fmt.Sprintf(msgReservationFailed, "seat reservation service unavailable"))
	}
	if err := s.reservations.ReserveSeat(ctx, accountID, seats); err != nil {
		return NewPurchaseViolation(models.OpReserveSeats, fmt.Sprintf(msgReservationFailed, err))
	}
	return nil
}

func (s *PurchaseService) fail(log *logger.Logger, purchaseID string, violation *PurchaseViolation) models.PurchaseResult {
	result := models.Failure(violation.Operation, violation.Message)
	logResult(log, result)

	s.dispatch(log, events.NewPurchaseFailedEvent(models.PurchaseFailure{
		PurchaseID: purchaseID,
		Operation:  violation.Operation,
		Reason:     violation.Message,
		FailedAt:   time.Now().UTC(),
	}))
	return result
}

// dispatch hands the outcome to the listeners without waiting for them.
// Listener errors are logged by the dispatcher and never change the result.
func (s *PurchaseService) dispatch(log *logger.Logger, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Event dispatch panicked", "event", event.Name(), "panic", r)
		}
	}()
	s.dispatcher.DispatchAsync(event)
}

func logStage(log *logger.Logger, op models.OperationTag, title, detail string) {
	log.Info(title, "type", string(op), "title", title, "detail", detail)
}

func logResult(log *logger.Logger, result models.PurchaseResult) {
	fields := []interface{}{
		"type", string(result.Type),
		"title", result.Title,
		"detail", result.Detail,
		"statusCode", result.StatusCode,
	}
	if result.IsSuccess() {
		log.Info(result.Title, fields...)
		return
	}
	log.Error(result.Title, fields...)
}
