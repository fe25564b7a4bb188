// -----------------------------------------------------------------------------
// Ticket Model
// -----------------------------------------------------------------------------
// Ticket categories, immutable ticket requests and the per-category counts
// derived from them.
// -----------------------------------------------------------------------------

package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// TicketType is the ticket category.
type TicketType string

const (
	TicketTypeAdult  TicketType = "ADULT"
	TicketTypeChild  TicketType = "CHILD"
	TicketTypeInfant TicketType = "INFANT"
)

var (
	ErrInvalidTicketType     = errors.New("type must be ADULT, CHILD, or INFANT")
	ErrInvalidTicketQuantity = errors.New("number of tickets must be a non-negative integer")
)

// ParseTicketType converts a raw category name into a TicketType.
func ParseTicketType(raw string) (TicketType, error) {
	t := TicketType(strings.TrimSpace(raw))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidTicketType, raw)
	}
	return t, nil
}

// IsValid reports whether t is one of the known categories.
func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeAdult, TicketTypeChild, TicketTypeInfant:
		return true
	}
	return false
}

// OccupiesSeat reports whether a ticket of this category needs a seat.
// Infants sit on an adult's lap.
func (t TicketType) OccupiesSeat() bool {
	return t == TicketTypeAdult || t == TicketTypeChild
}

// TicketTypeRequest is an immutable request for a number of tickets of one
// category. Use NewTicketTypeRequest to build one.
type TicketTypeRequest struct {
	ticketType TicketType
	quantity   int
}

// NewTicketTypeRequest validates and builds a TicketTypeRequest.
func NewTicketTypeRequest(ticketType TicketType, quantity int) (TicketTypeRequest, error) {
	if !ticketType.IsValid() {
		return TicketTypeRequest{}, fmt.Errorf("%w: got %q", ErrInvalidTicketType, string(ticketType))
	}
	if quantity < 0 {
		return TicketTypeRequest{}, fmt.Errorf("%w: got %d", ErrInvalidTicketQuantity, quantity)
	}
	return TicketTypeRequest{ticketType: ticketType, quantity: quantity}, nil
}

// MustTicketTypeRequest is like NewTicketTypeRequest but panics on invalid input.
// Intended for fixtures and constants.
func MustTicketTypeRequest(ticketType TicketType, quantity int) TicketTypeRequest {
	req, err := NewTicketTypeRequest(ticketType, quantity)
	if err != nil {
		panic(err)
	}
	return req
}

func (r TicketTypeRequest) Type() TicketType { return r.ticketType }

func (r TicketTypeRequest) Quantity() int { return r.quantity }

// TicketCounts is the per-category aggregate of a purchase.
type TicketCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Total    int `json:"total"`
}

var ticketTypes = []TicketType{TicketTypeAdult, TicketTypeChild, TicketTypeInfant}

// CountTickets sums the quantities of all requests per category. Sums
// saturate at math.MaxInt instead of wrapping, so a huge request still
// counts as huge.
func CountTickets(requests ...TicketTypeRequest) TicketCounts {
	var c TicketCounts
	for _, r := range requests {
		switch r.ticketType {
		case TicketTypeAdult:
			c.Adults = addCapped(c.Adults, r.quantity)
		case TicketTypeChild:
			c.Children = addCapped(c.Children, r.quantity)
		case TicketTypeInfant:
			c.Infants = addCapped(c.Infants, r.quantity)
		}
	}
	c.Total = addCapped(addCapped(c.Adults, c.Children), c.Infants)
	return c
}

// addCapped adds two non-negative counts.
func addCapped(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// Of returns the count for a single category.
func (c TicketCounts) Of(t TicketType) int {
	switch t {
	case TicketTypeAdult:
		return c.Adults
	case TicketTypeChild:
		return c.Children
	case TicketTypeInfant:
		return c.Infants
	}
	return 0
}

// SeatsRequired returns the number of seat-bearing tickets.
func (c TicketCounts) SeatsRequired() int {
	seats := 0
	for _, t := range ticketTypes {
		if t.OccupiesSeat() {
			seats = addCapped(seats, c.Of(t))
		}
	}
	return seats
}

func (c TicketCounts) String() string {
	return fmt.Sprintf("Adults: %d, Children: %d, Infants: %d, Total: %d.", c.Adults, c.Children, c.Infants, c.Total)
}
