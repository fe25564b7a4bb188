package strategy

import (
	"fmt"

	"github.com/biyonik/cinema-ticket-service/internal/models"
)

// PricingStrategy computes the total cost of a purchase from its ticket counts.
type PricingStrategy interface {
	CalculateTotal(counts models.TicketCounts) int
}

// CategoryPricing charges a fixed whole-pound price per ticket category.
// The value is immutable once built; copy it to change prices.
type CategoryPricing struct {
	adult  int
	child  int
	infant int
}

const (
	DefaultAdultPrice  = 25
	DefaultChildPrice  = 15
	DefaultInfantPrice = 0
)

// NewCategoryPricing builds a CategoryPricing. Prices must not be negative.
func NewCategoryPricing(adult, child, infant int) (CategoryPricing, error) {
	if adult < 0 || child < 0 || infant < 0 {
		return CategoryPricing{}, fmt.Errorf("ticket prices must not be negative (adult=%d, child=%d, infant=%d)", adult, child, infant)
	}
	return CategoryPricing{adult: adult, child: child, infant: infant}, nil
}

// DefaultCategoryPricing returns the standard price list: Adult £25, Child £15, Infant free.
func DefaultCategoryPricing() CategoryPricing {
	return CategoryPricing{adult: DefaultAdultPrice, child: DefaultChildPrice, infant: DefaultInfantPrice}
}

// PriceOf returns the unit price of a category.
func (p CategoryPricing) PriceOf(t models.TicketType) int {
	switch t {
	case models.TicketTypeAdult:
		return p.adult
	case models.TicketTypeChild:
		return p.child
	case models.TicketTypeInfant:
		return p.infant
	}
	return 0
}

// CalculateTotal charges every category at its unit price.
func (p CategoryPricing) CalculateTotal(counts models.TicketCounts) int {
	total := 0
	for _, t := range []models.TicketType{models.TicketTypeAdult, models.TicketTypeChild, models.TicketTypeInfant} {
		total += counts.Of(t) * p.PriceOf(t)
	}
	return total
}
