package collection

import (
	"context"

	"github.com/mkrupp/shopcase/internal/domain"
)

// Repository defines the interface for durable collection storage. Each
// (owner, kind) pair maps to one serialized ordered sequence of line items.
type Repository interface {
	// Load reads the saved snapshot for the given owner and collection kind.
	// A missing or undecodable snapshot yields an empty item list and no
	// error; saved state is deliberately lossy.
	Load(ctx context.Context, owner string, kind domain.CollectionKind) ([]domain.LineItem, error)

	// Save overwrites the saved snapshot for the given owner and collection kind.
	Save(ctx context.Context, owner string, kind domain.CollectionKind, items []domain.LineItem) error

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
