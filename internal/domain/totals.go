package domain

import "math"

// Checkout pricing constants. These are the single source of truth for every
// summary the storefront renders; cart drawer and checkout must not carry
// their own copies.
const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 150.00
	// FlatShippingRate is charged below the free shipping threshold.
	FlatShippingRate = 15.00
	// TaxRate is applied to the subtotal.
	TaxRate = 0.08
)

// Totals are the derived monetary figures of a collection snapshot. All
// values are unrounded accumulations; call Display before rendering.
type Totals struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	Savings   float64 `json:"savings"`
}

// CalculateTotals computes checkout totals from a snapshot. It is a pure
// function of the items; rounding happens only in Display.
func CalculateTotals(items []LineItem, kind CollectionKind) Totals {
	var totals Totals

	for _, item := range items {
		qty := float64(item.Quantity)
		totals.Subtotal += item.Price * qty
		totals.Savings += item.Savings() * qty

		if kind == CollectionWishlist {
			totals.ItemCount++
		} else {
			totals.ItemCount += item.Quantity
		}
	}

	if totals.Subtotal > 0 && totals.Subtotal < FreeShippingThreshold {
		totals.Shipping = FlatShippingRate
	}

	totals.Tax = totals.Subtotal * TaxRate
	totals.Total = totals.Subtotal + totals.Shipping + totals.Tax

	return totals
}

// Display returns a copy of the totals with every monetary value rounded to
// two decimal places for rendering.
func (t Totals) Display() Totals {
	t.Subtotal = roundCurrency(t.Subtotal)
	t.Shipping = roundCurrency(t.Shipping)
	t.Tax = roundCurrency(t.Tax)
	t.Total = roundCurrency(t.Total)
	t.Savings = roundCurrency(t.Savings)

	return t
}

func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
