package cartsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	"github.com/mkrupp/shopcase/internal/repo/collection"
)

// CartService owns the cart and wishlist collection stores of every active
// session. Stores are created lazily per (owner, kind) and rehydrated from
// the collection repository on first use; each store is then the single
// writer for its collection.
type CartService struct {
	repo collection.Repository
	log  logging.Logger

	mu     sync.Mutex
	stores map[storeKey]*Store
}

type storeKey struct {
	owner string
	kind  domain.CollectionKind
}

// NewCartService creates a new CartService with the given collection
// repository factory. Returns an error if the repository cannot be created.
func NewCartService(repoFactory collection.RepositoryFactory) (*CartService, error) {
	log := logging.GetLogger("svc.cartsvc.cart_service")

	repo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new collection repo: %w", err)
	}

	return &CartService{
		repo:   repo,
		log:    log,
		stores: make(map[storeKey]*Store),
	}, nil
}

func (svc *CartService) store(ctx context.Context, owner string, kind domain.CollectionKind) *Store {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	key := storeKey{owner: owner, kind: kind}
	if store, ok := svc.stores[key]; ok {
		return store
	}

	store := NewStore(ctx, owner, kind, svc.repo)
	svc.stores[key] = store

	return store
}

// Get returns the current snapshot of the owner's collection.
func (svc *CartService) Get(ctx context.Context, owner string, kind domain.CollectionKind) domain.Collection {
	return svc.store(ctx, owner, kind).Snapshot()
}

// AddItem validates and adds a line item to the owner's collection.
func (svc *CartService) AddItem(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
	item domain.LineItem,
) (snapshot domain.Collection, err error) {
	log := svc.log.With(logging.Group("item", "id", item.ID, "owner", owner, "kind", kind))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "add item failed", "error", err)
		} else {
			log.DebugContext(ctx, "item added")
		}
	}()

	if err := item.Validate(); err != nil {
		return domain.Collection{}, fmt.Errorf("validate item: %w", err)
	}

	return svc.store(ctx, owner, kind).Dispatch(ctx, AddItem(item)), nil
}

// RemoveItem removes the item with the given key; no-op if absent.
func (svc *CartService) RemoveItem(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
	key domain.ItemKey,
) domain.Collection {
	return svc.store(ctx, owner, kind).Dispatch(ctx, RemoveItem(key))
}

// UpdateQuantity sets the quantity of the item with the given key. Out of
// bounds quantities are clamped, never rejected; zero or below removes the
// item.
func (svc *CartService) UpdateQuantity(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
	key domain.ItemKey,
	quantity int,
) domain.Collection {
	return svc.store(ctx, owner, kind).Dispatch(ctx, UpdateQuantity(key, quantity))
}

// ToggleItem validates and toggles membership of the item, the wishlist
// "heart" control.
func (svc *CartService) ToggleItem(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
	item domain.LineItem,
) (snapshot domain.Collection, err error) {
	log := svc.log.With(logging.Group("item", "id", item.ID, "owner", owner, "kind", kind))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "toggle item failed", "error", err)
		} else {
			log.DebugContext(ctx, "item toggled")
		}
	}()

	if err := item.Validate(); err != nil {
		return domain.Collection{}, fmt.Errorf("validate item: %w", err)
	}

	return svc.store(ctx, owner, kind).Dispatch(ctx, ToggleItem(item)), nil
}

// Clear empties the owner's collection.
func (svc *CartService) Clear(ctx context.Context, owner string, kind domain.CollectionKind) domain.Collection {
	return svc.store(ctx, owner, kind).Dispatch(ctx, Clear())
}

// Summary returns the owner's cart together with display-rounded checkout
// totals.
func (svc *CartService) Summary(ctx context.Context, owner string) (domain.Collection, domain.Totals) {
	snapshot := svc.store(ctx, owner, domain.CollectionCart).Snapshot()

	return snapshot, snapshot.Totals().Display()
}

// Close releases resources held by the service.
func (svc *CartService) Close() error {
	if err := svc.repo.Close(); err != nil {
		return fmt.Errorf("close collection repo: %w", err)
	}

	return nil
}
