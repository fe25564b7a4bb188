package controllers

import (
	"fmt"
	"net/http"

	"github.com/biyonik/cinema-ticket-service/internal/http/request"
	"github.com/biyonik/cinema-ticket-service/internal/http/response"
	"github.com/biyonik/cinema-ticket-service/internal/models"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
	"github.com/biyonik/cinema-ticket-service/pkg/validation/types"
)

// PurchaseController handles ticket purchases.
type PurchaseController struct {
	purchaser TicketPurchaser
	logger    *logger.Logger
}

func NewPurchaseController(purchaser TicketPurchaser, log *logger.Logger) *PurchaseController {
	return &PurchaseController{purchaser: purchaser, logger: log}
}

type ticketLine struct {
	Type     string      `json:"type"`
	Quantity interface{} `json:"quantity"`
}

// account_id is left untyped so that the purchase pipeline decides what a
// valid account is.
type purchaseRequest struct {
	AccountID interface{}  `json:"account_id"`
	Tickets   []ticketLine `json:"tickets"`
}

// Purchase handles POST /api/purchases. The response body is the purchase
// result and the HTTP status is its statusCode.
func (c *PurchaseController) Purchase(w http.ResponseWriter, r *http.Request) {
	req := request.New(r)

	var body purchaseRequest
	if err := req.ParseJSON(&body); err != nil {
		c.logger.Debug("Rejected purchase body", "error", err)
		response.InvalidJSON(w)
		return
	}

	tickets, err := buildTicketRequests(body.Tickets)
	if err != nil {
		result := models.Failure(models.OpProcessTickets, "Invalid ticket request: "+err.Error()+".")
		c.logger.Error(result.Title, "type", string(result.Type), "title", result.Title, "detail", result.Detail, "statusCode", result.StatusCode, "client_id", req.ClientID())
		response.PurchaseResult(w, result)
		return
	}

	result := c.purchaser.PurchaseTickets(r.Context(), body.AccountID, tickets...)
	response.PurchaseResult(w, result)
}

func buildTicketRequests(lines []ticketLine) ([]models.TicketTypeRequest, error) {
	tickets := make([]models.TicketTypeRequest, 0, len(lines))
	for i, line := range lines {
		ticketType, err := models.ParseTicketType(line.Type)
		if err != nil {
			return nil, fmt.Errorf("ticket #%d: %w", i+1, err)
		}

		quantity, ok := types.ToInt64(line.Quantity)
		if !ok || quantity < 0 || quantity > int64(maxInt) {
			return nil, fmt.Errorf("ticket #%d: %w", i+1, models.ErrInvalidTicketQuantity)
		}

		ticket, err := models.NewTicketTypeRequest(ticketType, int(quantity))
		if err != nil {
			return nil, fmt.Errorf("ticket #%d: %w", i+1, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

const maxInt = int(^uint(0) >> 1)
