package cartsvc_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/repo/collection"
	"github.com/mkrupp/shopcase/internal/svc/cartsvc"
)

type snapshotKey struct {
	owner string
	kind  domain.CollectionKind
}

// mockRepository implements collection.Repository for testing.
type mockRepository struct {
	m              sync.Mutex
	snapshots      map[snapshotKey][]domain.LineItem
	saved          chan struct{}
	loadErr        error
	saveErr        error
	firstSaveDelay time.Duration
}

func newMockRepo() *mockRepository {
	return &mockRepository{
		snapshots: make(map[snapshotKey][]domain.LineItem),
		saved:     make(chan struct{}, 16),
	}
}

func (m *mockRepository) Load(
	_ context.Context,
	owner string,
	kind domain.CollectionKind,
) ([]domain.LineItem, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}

	items, ok := m.snapshots[snapshotKey{owner, kind}]
	if !ok {
		return []domain.LineItem{}, nil
	}

	return items, nil
}

func (m *mockRepository) Save(
	_ context.Context,
	owner string,
	kind domain.CollectionKind,
	items []domain.LineItem,
) error {
	m.m.Lock()
	delay := m.firstSaveDelay
	m.firstSaveDelay = 0
	m.m.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	m.m.Lock()
	defer m.m.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	m.snapshots[snapshotKey{owner, kind}] = items
	m.saved <- struct{}{}

	return nil
}

func (m *mockRepository) Close() error {
	return nil
}

func (m *mockRepository) awaitSave(t *testing.T) {
	t.Helper()

	select {
	case <-m.saved:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for write-through")
	}
}

func setupCartService(t *testing.T) (*cartsvc.CartService, *mockRepository) {
	t.Helper()

	mockRepo := newMockRepo()

	svc, err := cartsvc.NewCartService(func() (collection.Repository, error) {
		return mockRepo, nil
	})
	if err != nil {
		t.Fatalf("failed to create cart service: %v", err)
	}

	return svc, mockRepo
}

func TestCartService_AddItem(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()

	snapshot, err := svc.AddItem(ctx, "alice", domain.CollectionCart, domain.LineItem{
		ID:       "p-1",
		Price:    10,
		Quantity: 2,
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if len(snapshot.Items) != 1 || snapshot.Items[0].Quantity != 2 {
		t.Errorf("AddItem() snapshot = %+v, want one item with quantity 2", snapshot.Items)
	}

	// The mutation is written through
	mockRepo.awaitSave(t)

	items, _ := mockRepo.Load(ctx, "alice", domain.CollectionCart)
	if len(items) != 1 {
		t.Errorf("persisted items = %+v, want one item", items)
	}
}

func TestCartService_AddItem_Invalid(t *testing.T) {
	t.Parallel()

	svc, _ := setupCartService(t)

	_, err := svc.AddItem(context.Background(), "alice", domain.CollectionCart, domain.LineItem{
		Price:    10,
		Quantity: 1,
	})
	if !errors.Is(err, domain.ErrNoItemID) {
		t.Errorf("AddItem() error = %v, want %v", err, domain.ErrNoItemID)
	}
}

func TestCartService_OwnersAreIsolated(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", domain.CollectionCart, domain.LineItem{
		ID: "p-1", Price: 10, Quantity: 1,
	}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	mockRepo.awaitSave(t)

	if got := svc.Get(ctx, "bob", domain.CollectionCart); len(got.Items) != 0 {
		t.Errorf("Get(bob) items = %+v, want empty", got.Items)
	}
	if got := svc.Get(ctx, "alice", domain.CollectionWishlist); len(got.Items) != 0 {
		t.Errorf("Get(alice, wishlist) items = %+v, want empty", got.Items)
	}
}

func TestCartService_RehydratesFromRepository(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()

	mockRepo.snapshots[snapshotKey{"alice", domain.CollectionCart}] = []domain.LineItem{
		{ID: "p-1", Price: 10, Quantity: 99, MaxQuantity: 5},
	}

	// Rehydration passes through the reducer, clamping quantities
	snapshot := svc.Get(ctx, "alice", domain.CollectionCart)
	if len(snapshot.Items) != 1 || snapshot.Items[0].Quantity != 5 {
		t.Errorf("Get() rehydrated = %+v, want quantity clamped to 5", snapshot.Items)
	}
}

func TestCartService_RehydrateFailureStartsEmpty(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	mockRepo.loadErr = errors.New("storage unavailable")

	snapshot := svc.Get(context.Background(), "alice", domain.CollectionCart)
	if len(snapshot.Items) != 0 {
		t.Errorf("Get() items = %+v, want empty on rehydrate failure", snapshot.Items)
	}
}

func TestCartService_ToggleItem(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()
	item := domain.LineItem{ID: "p-1", Price: 10, Quantity: 1}

	snapshot, err := svc.ToggleItem(ctx, "alice", domain.CollectionWishlist, item)
	if err != nil {
		t.Fatalf("ToggleItem() error = %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Fatalf("ToggleItem() items = %+v, want one item", snapshot.Items)
	}
	mockRepo.awaitSave(t)

	snapshot, err = svc.ToggleItem(ctx, "alice", domain.CollectionWishlist, item)
	if err != nil {
		t.Fatalf("ToggleItem() error = %v", err)
	}
	if len(snapshot.Items) != 0 {
		t.Errorf("ToggleItem() items = %+v, want empty after second toggle", snapshot.Items)
	}
}

func TestCartService_Summary(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", domain.CollectionCart, domain.LineItem{
		ID: "p-1", Price: 50, Quantity: 2,
	}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	mockRepo.awaitSave(t)

	cart, totals := svc.Summary(ctx, "alice")

	if len(cart.Items) != 1 {
		t.Errorf("Summary() cart = %+v, want one item", cart.Items)
	}
	if totals.Subtotal != 100 || totals.Shipping != 15 || totals.Tax != 8.00 || totals.Total != 123.00 {
		t.Errorf("Summary() totals = %+v, want 100/15/8.00/123.00", totals)
	}
}

func TestCartService_WriteThroughConvergesWhenSlow(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()

	// A slow first write must not let an older snapshot become the last
	// durable state once a later mutation has been written through.
	mockRepo.firstSaveDelay = 100 * time.Millisecond

	if _, err := svc.AddItem(ctx, "alice", domain.CollectionCart, domain.LineItem{
		ID: "p-1", Price: 10, Quantity: 1,
	}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := svc.AddItem(ctx, "alice", domain.CollectionCart, domain.LineItem{
		ID: "p-2", Price: 5, Quantity: 1,
	}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	// Drain write-throughs until they settle, then check what ended up durable
	for {
		select {
		case <-mockRepo.saved:
		case <-time.After(300 * time.Millisecond):
			items, _ := mockRepo.Load(ctx, "alice", domain.CollectionCart)
			if len(items) != 2 {
				t.Fatalf("persisted items = %+v, want both mutations durable", items)
			}

			return
		}
	}
}

func TestCartService_WriteThroughFailureKeepsState(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupCartService(t)
	ctx := context.Background()
	mockRepo.saveErr = errors.New("disk full")

	snapshot, err := svc.AddItem(ctx, "alice", domain.CollectionCart, domain.LineItem{
		ID: "p-1", Price: 10, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Errorf("AddItem() items = %+v, want in-memory state despite failed write", snapshot.Items)
	}

	if got := svc.Get(ctx, "alice", domain.CollectionCart); len(got.Items) != 1 {
		t.Errorf("Get() items = %+v, want one item", got.Items)
	}
}
