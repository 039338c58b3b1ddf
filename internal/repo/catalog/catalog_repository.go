package catalog

import (
	"context"

	"github.com/mkrupp/shopcase/internal/domain"
)

// Repository defines the interface for read-only catalog data. The catalog
// is external data; in this deployment it is a static seed, in a real one it
// would be an API-backed catalog service.
type Repository interface {
	// ListProducts returns all catalog products in display order.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetProductBySlug retrieves a product by its URL slug.
	// Returns the product and true if found, or false if not found.
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, bool, error)

	// GetProductByID retrieves a product by its catalog ID.
	// Returns the product and true if found, or false if not found.
	GetProductByID(ctx context.Context, id string) (domain.Product, bool, error)
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
