package domain

import "errors"

var (
	// ErrNoItemID is returned when a line item is submitted without a product ID.
	ErrNoItemID = errors.New("no item ID")
	// ErrInvalidPrice is returned when a line item carries a negative price.
	ErrInvalidPrice = errors.New("invalid price")
)

// DefaultMaxQuantity is the per-line quantity cap applied when a line item
// does not specify its own MaxQuantity.
const DefaultMaxQuantity = 10

// LineItem is a product entry inside a cart or wishlist: catalog identity,
// display metadata, the chosen variant and a quantity.
type LineItem struct {
	ID             string   `json:"id"`                       // Catalog product ID
	Title          string   `json:"title"`                    // Display title
	Slug           string   `json:"slug"`                     // URL slug
	Image          string   `json:"image,omitempty"`          // Primary image ID
	Price          float64  `json:"price"`                    // Current unit price
	CompareAtPrice *float64 `json:"compareAtPrice,omitempty"` // Original price, if discounted
	SelectedColor  string   `json:"selectedColor,omitempty"`  // Chosen color variant
	SelectedSize   string   `json:"selectedSize,omitempty"`   // Chosen size variant
	Quantity       int      `json:"quantity"`                 // Positive, capped by MaxQuantity
	MaxQuantity    int      `json:"maxQuantity,omitempty"`    // Per-line cap, DefaultMaxQuantity if zero
}

// ItemKey identifies a line item within a collection. Carts distinguish
// variants of the same product; wishlists key by product ID alone.
type ItemKey struct {
	ID    string `json:"id"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// Key returns the uniqueness key of the item for the given collection kind.
func (item LineItem) Key(kind CollectionKind) ItemKey {
	if kind == CollectionWishlist {
		return ItemKey{ID: item.ID}
	}

	return ItemKey{
		ID:    item.ID,
		Color: item.SelectedColor,
		Size:  item.SelectedSize,
	}
}

// EffectiveMaxQuantity returns the quantity cap for the item.
func (item LineItem) EffectiveMaxQuantity() int {
	if item.MaxQuantity > 0 {
		return item.MaxQuantity
	}

	return DefaultMaxQuantity
}

// ClampQuantity bounds a requested quantity to [1, max]. Quantities of zero
// or below are the caller's signal to remove the item instead.
func (item LineItem) ClampQuantity(quantity int) int {
	if max := item.EffectiveMaxQuantity(); quantity > max {
		return max
	}

	if quantity < 1 {
		return 1
	}

	return quantity
}

// Validate checks the invariants a line item must satisfy before it enters
// a collection.
func (item LineItem) Validate() error {
	if item.ID == "" {
		return ErrNoItemID
	}

	if item.Price < 0 {
		return ErrInvalidPrice
	}

	return nil
}

// Savings returns the per-unit discount of the item, zero when no compare-at
// price is present or the item is not actually discounted.
func (item LineItem) Savings() float64 {
	if item.CompareAtPrice == nil {
		return 0
	}

	if saved := *item.CompareAtPrice - item.Price; saved > 0 {
		return saved
	}

	return 0
}
