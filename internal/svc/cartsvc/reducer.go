package cartsvc

import (
	"slices"

	"github.com/mkrupp/shopcase/internal/domain"
)

// Reduce applies an action to a collection snapshot and returns the next
// snapshot. It is a pure transition function: the input snapshot is never
// mutated, and dispatching the same action on the same snapshot always
// yields the same result.
func Reduce(state domain.Collection, action Action) domain.Collection {
	switch action.Type {
	case ActionAddItem:
		return reduceAdd(state, action.Item)
	case ActionRemoveItem:
		return reduceRemove(state, action.Key)
	case ActionUpdateQuantity:
		return reduceUpdateQuantity(state, action.Key, action.Quantity)
	case ActionToggleItem:
		return reduceToggle(state, action.Item)
	case ActionClear:
		return domain.Collection{Kind: state.Kind, Items: []domain.LineItem{}}
	case ActionLoad:
		return reduceLoad(state, action.Items)
	default:
		return state
	}
}

func reduceAdd(state domain.Collection, item domain.LineItem) domain.Collection {
	item.Quantity = item.ClampQuantity(item.Quantity)

	i, exists := state.Find(item.Key(state.Kind))
	if !exists {
		return withItems(state, append(cloneItems(state.Items), item))
	}

	// Duplicate adds are a no-op for wishlists.
	if state.Kind == domain.CollectionWishlist {
		return state
	}

	items := cloneItems(state.Items)
	existing := items[i]
	items[i].Quantity = existing.ClampQuantity(existing.Quantity + item.Quantity)

	return withItems(state, items)
}

func reduceRemove(state domain.Collection, key domain.ItemKey) domain.Collection {
	i, exists := state.Find(key)
	if !exists {
		return state
	}

	return withItems(state, slices.Delete(cloneItems(state.Items), i, i+1))
}

func reduceUpdateQuantity(state domain.Collection, key domain.ItemKey, quantity int) domain.Collection {
	if quantity <= 0 {
		return reduceRemove(state, key)
	}

	i, exists := state.Find(key)
	if !exists {
		return state
	}

	items := cloneItems(state.Items)
	items[i].Quantity = items[i].ClampQuantity(quantity)

	return withItems(state, items)
}

func reduceToggle(state domain.Collection, item domain.LineItem) domain.Collection {
	key := item.Key(state.Kind)
	if state.Contains(key) {
		return reduceRemove(state, key)
	}

	return reduceAdd(state, item)
}

func reduceLoad(state domain.Collection, items []domain.LineItem) domain.Collection {
	loaded := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		item.Quantity = item.ClampQuantity(item.Quantity)
		loaded = append(loaded, item)
	}

	return withItems(state, loaded)
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	return slices.Clone(items)
}

func withItems(state domain.Collection, items []domain.LineItem) domain.Collection {
	if items == nil {
		items = []domain.LineItem{}
	}

	return domain.Collection{Kind: state.Kind, Items: items}
}
