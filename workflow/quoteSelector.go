package workflow

import (
	"bitbucket.org/biomacls/procurement_backend/models"
	"github.com/shopspring/decimal"
)

// Selection is the outcome of phase two: the winning quote and the spread
// between the most and least expensive quotes.
type Selection struct {
	Winner  *models.VendorQuote
	Savings decimal.Decimal
}

// SelectQuote picks the minimum-total-cost quote. Ties keep the quote
// encountered first, so the result is stable in collection order. An empty
// list yields models.ErrNoQuotes, never a panic; all solicitations failing
// is a reachable state.
func SelectQuote(quotes []*models.VendorQuote) (*Selection, error) {
	if len(quotes) == 0 {
		return nil, models.ErrNoQuotes
	}

	winner := quotes[0]
	highest := quotes[0].TotalCost
	for _, quote := range quotes[1:] {
		if quote.TotalCost.LessThan(winner.TotalCost) {
			winner = quote
		}
		if quote.TotalCost.GreaterThan(highest) {
			highest = quote.TotalCost
		}
	}

	savings := highest.Sub(winner.TotalCost)
	if savings.IsNegative() {
		savings = decimal.Zero
	}
	return &Selection{Winner: winner, Savings: savings}, nil
}
