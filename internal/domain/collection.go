package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownCollection is returned when a collection kind is not one of
// CollectionCart or CollectionWishlist.
var ErrUnknownCollection = errors.New("unknown collection")

// CollectionKind names a collection store. The kind doubles as the durable
// storage key the collection is persisted under.
type CollectionKind string

const (
	CollectionCart     CollectionKind = "cart"
	CollectionWishlist CollectionKind = "wishlist"
)

// ParseCollectionKind converts a string into a CollectionKind.
func ParseCollectionKind(s string) (CollectionKind, error) {
	switch CollectionKind(s) {
	case CollectionCart:
		return CollectionCart, nil
	case CollectionWishlist:
		return CollectionWishlist, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
}

// StorageKey returns the durable storage key for the collection.
func (kind CollectionKind) StorageKey() string {
	return string(kind)
}

// Collection is an immutable snapshot of a cart or wishlist: the ordered
// line items (insertion order is display order) plus the kind they belong to.
type Collection struct {
	Kind  CollectionKind `json:"kind"`
	Items []LineItem     `json:"items"`
}

// Contains reports whether an item with the given key is in the collection.
func (c Collection) Contains(key ItemKey) bool {
	_, ok := c.Find(key)

	return ok
}

// Find returns the index of the item with the given key, or false if absent.
func (c Collection) Find(key ItemKey) (int, bool) {
	for i, item := range c.Items {
		if item.Key(c.Kind) == key {
			return i, true
		}
	}

	return 0, false
}

// ItemCount is the derived display count: total quantity for carts, number
// of distinct items for wishlists.
func (c Collection) ItemCount() int {
	if c.Kind == CollectionWishlist {
		return len(c.Items)
	}

	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}

// Subtotal is the derived sum of price*quantity over all items, unrounded.
func (c Collection) Subtotal() float64 {
	subtotal := 0.0
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}

	return subtotal
}

// Totals computes the derived checkout totals for the snapshot.
func (c Collection) Totals() Totals {
	return CalculateTotals(c.Items, c.Kind)
}
