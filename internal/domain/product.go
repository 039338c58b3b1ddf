package domain

import "errors"

// ErrProductNotFound is returned when looking up a product that is not in
// the catalog.
var ErrProductNotFound = errors.New("product not found")

// Rating is an aggregated product review score.
type Rating struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Product is a read-only catalog record. The catalog is external data; the
// storefront never mutates it.
type Product struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Images         []string `json:"images"` // Image blob IDs
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice,omitempty"`
	Badges         []string `json:"badges,omitempty"`
	Rating         *Rating  `json:"rating,omitempty"`
	Colors         []string `json:"colors,omitempty"` // Offered color variants
	Sizes          []string `json:"sizes,omitempty"`  // Offered size variants
	MaxQuantity    int      `json:"maxQuantity,omitempty"`
}

// LineItem converts the product into a cart line item with the chosen
// variant and quantity. Display metadata is snapshotted at add time.
func (p Product) LineItem(color, size string, quantity int) LineItem {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	return LineItem{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Image:          image,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		SelectedColor:  color,
		SelectedSize:   size,
		Quantity:       quantity,
		MaxQuantity:    p.MaxQuantity,
	}
}
