package cartsvc

import "github.com/mkrupp/shopcase/internal/domain"

// ActionType enumerates the mutations a collection store accepts.
type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionToggleItem     ActionType = "TOGGLE_ITEM"
	ActionClear          ActionType = "CLEAR"
	ActionLoad           ActionType = "LOAD"
)

// Action is the tagged command dispatched through the reducer. Only the
// fields relevant to the action type are read.
type Action struct {
	Type     ActionType
	Item     domain.LineItem   // ADD_ITEM, TOGGLE_ITEM
	Key      domain.ItemKey    // REMOVE_ITEM, UPDATE_QUANTITY
	Quantity int               // UPDATE_QUANTITY
	Items    []domain.LineItem // LOAD
}

// AddItem appends the item, or for carts increments the quantity of an
// existing item with the same uniqueness key. Wishlists no-op on duplicates.
func AddItem(item domain.LineItem) Action {
	return Action{Type: ActionAddItem, Item: item}
}

// RemoveItem removes the item with the given key; no-op if absent.
func RemoveItem(key domain.ItemKey) Action {
	return Action{Type: ActionRemoveItem, Key: key}
}

// UpdateQuantity sets the quantity of the item with the given key, removing
// it when the quantity is zero or below.
func UpdateQuantity(key domain.ItemKey, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, Key: key, Quantity: quantity}
}

// ToggleItem removes the item if present, otherwise adds it.
func ToggleItem(item domain.LineItem) Action {
	return Action{Type: ActionToggleItem, Item: item}
}

// Clear empties the collection.
func Clear() Action {
	return Action{Type: ActionClear}
}

// Load replaces the collection wholesale. Used once per store at startup to
// rehydrate from durable storage; it does not trigger a write-back.
func Load(items []domain.LineItem) Action {
	return Action{Type: ActionLoad, Items: items}
}
