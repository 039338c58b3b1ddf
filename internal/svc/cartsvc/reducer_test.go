package cartsvc_test

import (
	"testing"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/svc/cartsvc"
)

func cartWith(items ...domain.LineItem) domain.Collection {
	return domain.Collection{Kind: domain.CollectionCart, Items: items}
}

func wishlistWith(items ...domain.LineItem) domain.Collection {
	return domain.Collection{Kind: domain.CollectionWishlist, Items: items}
}

func TestReduce_AddItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		state     domain.Collection
		item      domain.LineItem
		wantItems []domain.LineItem
	}{
		{
			name:  "appends new item",
			state: cartWith(),
			item:  domain.LineItem{ID: "p-1", Quantity: 2},
			wantItems: []domain.LineItem{
				{ID: "p-1", Quantity: 2},
			},
		},
		{
			name:  "duplicate cart add increments quantity",
			state: cartWith(domain.LineItem{ID: "p-1", Quantity: 2}),
			item:  domain.LineItem{ID: "p-1", Quantity: 3},
			wantItems: []domain.LineItem{
				{ID: "p-1", Quantity: 5},
			},
		},
		{
			name:  "increment clamps at max quantity",
			state: cartWith(domain.LineItem{ID: "p-1", Quantity: 9, MaxQuantity: 10}),
			item:  domain.LineItem{ID: "p-1", Quantity: 5, MaxQuantity: 10},
			wantItems: []domain.LineItem{
				{ID: "p-1", Quantity: 10, MaxQuantity: 10},
			},
		},
		{
			name:  "add clamps oversized quantity",
			state: cartWith(),
			item:  domain.LineItem{ID: "p-1", Quantity: 99, MaxQuantity: 4},
			wantItems: []domain.LineItem{
				{ID: "p-1", Quantity: 4, MaxQuantity: 4},
			},
		},
		{
			name: "same product different variant is a new cart entry",
			state: cartWith(
				domain.LineItem{ID: "p-1", SelectedColor: "red", Quantity: 1},
			),
			item: domain.LineItem{ID: "p-1", SelectedColor: "blue", Quantity: 1},
			wantItems: []domain.LineItem{
				{ID: "p-1", SelectedColor: "red", Quantity: 1},
				{ID: "p-1", SelectedColor: "blue", Quantity: 1},
			},
		},
		{
			name:  "duplicate wishlist add is a no-op",
			state: wishlistWith(domain.LineItem{ID: "p-1", SelectedColor: "red", Quantity: 1}),
			item:  domain.LineItem{ID: "p-1", SelectedColor: "blue", Quantity: 1},
			wantItems: []domain.LineItem{
				{ID: "p-1", SelectedColor: "red", Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := cartsvc.Reduce(tt.state, cartsvc.AddItem(tt.item))
			assertItems(t, next.Items, tt.wantItems)
		})
	}
}

func TestReduce_RemoveItem(t *testing.T) {
	t.Parallel()

	state := cartWith(
		domain.LineItem{ID: "p-1", Quantity: 1},
		domain.LineItem{ID: "p-2", Quantity: 2},
	)

	next := cartsvc.Reduce(state, cartsvc.RemoveItem(domain.ItemKey{ID: "p-1"}))
	assertItems(t, next.Items, []domain.LineItem{{ID: "p-2", Quantity: 2}})

	// Removing an absent key is a no-op
	next = cartsvc.Reduce(next, cartsvc.RemoveItem(domain.ItemKey{ID: "p-9"}))
	assertItems(t, next.Items, []domain.LineItem{{ID: "p-2", Quantity: 2}})
}

func TestReduce_UpdateQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quantity  int
		wantItems []domain.LineItem
	}{
		{
			name:      "sets quantity",
			quantity:  4,
			wantItems: []domain.LineItem{{ID: "p-1", Quantity: 4, MaxQuantity: 5}},
		},
		{
			name:      "clamps above max",
			quantity:  99,
			wantItems: []domain.LineItem{{ID: "p-1", Quantity: 5, MaxQuantity: 5}},
		},
		{
			name:      "zero removes the item",
			quantity:  0,
			wantItems: []domain.LineItem{},
		},
		{
			name:      "negative removes the item",
			quantity:  -3,
			wantItems: []domain.LineItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := cartWith(domain.LineItem{ID: "p-1", Quantity: 2, MaxQuantity: 5})
			next := cartsvc.Reduce(state, cartsvc.UpdateQuantity(domain.ItemKey{ID: "p-1"}, tt.quantity))
			assertItems(t, next.Items, tt.wantItems)
		})
	}
}

func TestReduce_ToggleItem(t *testing.T) {
	t.Parallel()

	item := domain.LineItem{ID: "p-1", Quantity: 1}
	state := wishlistWith()

	// Toggle in
	next := cartsvc.Reduce(state, cartsvc.ToggleItem(item))
	assertItems(t, next.Items, []domain.LineItem{item})

	// Toggle out restores the empty collection
	next = cartsvc.Reduce(next, cartsvc.ToggleItem(item))
	assertItems(t, next.Items, []domain.LineItem{})
}

func TestReduce_Clear(t *testing.T) {
	t.Parallel()

	state := cartWith(
		domain.LineItem{ID: "p-1", Quantity: 1},
		domain.LineItem{ID: "p-2", Quantity: 2},
	)

	next := cartsvc.Reduce(state, cartsvc.Clear())

	if len(next.Items) != 0 {
		t.Errorf("Reduce(CLEAR) items = %v, want empty", next.Items)
	}
	if next.Kind != domain.CollectionCart {
		t.Errorf("Reduce(CLEAR) kind = %v, want cart", next.Kind)
	}
}

func TestReduce_Load(t *testing.T) {
	t.Parallel()

	loaded := []domain.LineItem{
		{ID: "p-1", Quantity: 99, MaxQuantity: 5},
		{ID: "p-2", Quantity: 1},
	}

	next := cartsvc.Reduce(cartWith(domain.LineItem{ID: "old", Quantity: 1}), cartsvc.Load(loaded))

	assertItems(t, next.Items, []domain.LineItem{
		{ID: "p-1", Quantity: 5, MaxQuantity: 5},
		{ID: "p-2", Quantity: 1},
	})
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	state := cartWith(domain.LineItem{ID: "p-1", Quantity: 2})

	_ = cartsvc.Reduce(state, cartsvc.AddItem(domain.LineItem{ID: "p-1", Quantity: 3}))
	_ = cartsvc.Reduce(state, cartsvc.RemoveItem(domain.ItemKey{ID: "p-1"}))
	_ = cartsvc.Reduce(state, cartsvc.UpdateQuantity(domain.ItemKey{ID: "p-1"}, 9))

	assertItems(t, state.Items, []domain.LineItem{{ID: "p-1", Quantity: 2}})
}

func assertItems(t *testing.T, got, want []domain.LineItem) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("items = %+v, want %+v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
