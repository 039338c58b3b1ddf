package cartsvc

import (
	"context"
	"sync"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	"github.com/mkrupp/shopcase/internal/repo/collection"
)

// Store is a reducer-backed collection container for one (owner, kind)
// pair. All mutations go through Dispatch; after every mutation except LOAD
// the new snapshot is written through to durable storage without blocking
// the caller. The persisted copy may lag the in-memory snapshot but
// converges: write-throughs are serialized per store and a snapshot
// superseded by a newer one is never written.
type Store struct {
	kind  domain.CollectionKind
	owner string
	repo  collection.Repository
	log   logging.Logger

	mu    sync.Mutex
	items []domain.LineItem
	seq   uint64

	saveMu   sync.Mutex
	savedSeq uint64
}

// NewStore creates a Store and rehydrates it from durable storage. A saved
// snapshot that cannot be read leaves the store empty; rehydration never
// fails the caller.
func NewStore(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
	repo collection.Repository,
) *Store {
	log := logging.GetLogger("svc.cartsvc.store").With(
		logging.Group("collection", "owner", owner, "kind", kind),
	)

	store := &Store{
		kind:  kind,
		owner: owner,
		repo:  repo,
		log:   log,
		items: []domain.LineItem{},
	}

	saved, err := repo.Load(ctx, owner, kind)
	if err != nil {
		log.WarnContext(ctx, "rehydrate failed, starting empty", "error", err)

		return store
	}

	store.items = Reduce(domain.Collection{Kind: kind}, Load(saved)).Items

	return store
}

// Dispatch applies an action and returns the resulting snapshot. Actions
// are fully applied one at a time; the store never interleaves two actions.
func (s *Store) Dispatch(ctx context.Context, action Action) domain.Collection {
	s.mu.Lock()
	next := Reduce(domain.Collection{Kind: s.kind, Items: s.items}, action)
	s.items = next.Items
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	if action.Type != ActionLoad {
		s.persist(ctx, next.Items, seq)
	}

	return next
}

// Snapshot returns a copy of the current collection state.
func (s *Store) Snapshot() domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Collection{Kind: s.kind, Items: cloneItems(s.items)}
}

// Totals computes the derived checkout totals for the current snapshot.
func (s *Store) Totals() domain.Totals {
	snapshot := s.Snapshot()

	return snapshot.Totals()
}

// persist writes the snapshot through to durable storage fire-and-forget:
// the caller is not blocked and a failed write only logs. Writes are
// serialized under saveMu, and a snapshot whose sequence number has been
// overtaken by a newer write is dropped so the last durable write is always
// the latest snapshot.
func (s *Store) persist(ctx context.Context, items []domain.LineItem, seq uint64) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		s.saveMu.Lock()
		defer s.saveMu.Unlock()

		if seq <= s.savedSeq {
			s.log.DebugContext(ctx, "snapshot superseded, dropping write", "seq", seq)

			return
		}

		s.savedSeq = seq

		if err := s.repo.Save(ctx, s.owner, s.kind, items); err != nil {
			s.log.ErrorContext(ctx, "write-through failed", "error", err)
		} else {
			s.log.DebugContext(ctx, "snapshot persisted", "items", len(items), "seq", seq)
		}
	}()
}
