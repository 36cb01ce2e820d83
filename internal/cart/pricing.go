package cart

import "math"

const (
	// flat shipping whenever the cart has at least one line; a real shop
	// would delegate to a rates service
	flatShipping = 6.00
	taxRate      = 0.07
)

// Totals is the derived pricing breakdown. It is never stored: staleness
// would be a correctness bug, so it is recomputed from the cart on demand.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// ComputeTotals derives the breakdown from a cart snapshot. Tax is taken
// from the unrounded subtotal and rounded on its own, then the grand total
// is rounded last; reordering those roundings shifts cent-level results.
func ComputeTotals(lines []Line) Totals {
	var subtotal float64
	var count int
	for _, l := range lines {
		subtotal += l.Price * float64(l.Qty)
		count += l.Qty
	}

	var shipping float64
	if len(lines) > 0 {
		shipping = flatShipping
	}
	tax := round2(subtotal * taxRate)

	return Totals{
		Subtotal:  round2(subtotal),
		Shipping:  shipping,
		Tax:       tax,
		Total:     round2(subtotal + shipping + tax),
		ItemCount: count,
	}
}

// round2 rounds half-up to two decimals. Inputs are non-negative.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
