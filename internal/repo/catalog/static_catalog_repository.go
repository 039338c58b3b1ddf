package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/infra/logging"
)

//go:embed products.json
var productSeed []byte

// StaticCatalogRepository implements Repository over an embedded JSON seed.
type StaticCatalogRepository struct {
	products []domain.Product
	bySlug   map[string]int
	byID     map[string]int
	log      logging.Logger
}

var _ Repository = (*StaticCatalogRepository)(nil)

// StaticCatalogRepositoryFactory creates a factory function that returns a
// new StaticCatalogRepository. The factory function implements the
// RepositoryFactory type.
func StaticCatalogRepositoryFactory() RepositoryFactory {
	return func() (Repository, error) {
		return NewStaticCatalogRepository()
	}
}

// NewStaticCatalogRepository creates a new StaticCatalogRepository from the
// embedded product seed. Returns an error if the seed fails to decode.
func NewStaticCatalogRepository() (*StaticCatalogRepository, error) {
	log := logging.GetLogger("repo.catalog.static_catalog_repository")

	var products []domain.Product
	if err := json.Unmarshal(productSeed, &products); err != nil {
		return nil, fmt.Errorf("decode product seed: %w", err)
	}

	repo := &StaticCatalogRepository{
		products: products,
		bySlug:   make(map[string]int, len(products)),
		byID:     make(map[string]int, len(products)),
		log:      log,
	}

	for i, p := range products {
		repo.bySlug[p.Slug] = i
		repo.byID[p.ID] = i
	}

	return repo, nil
}

// ListProducts implements Repository.ListProducts.
func (r *StaticCatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)

	return out, nil
}

// GetProductBySlug implements Repository.GetProductBySlug.
func (r *StaticCatalogRepository) GetProductBySlug(
	ctx context.Context,
	slug string,
) (domain.Product, bool, error) {
	i, ok := r.bySlug[slug]
	if !ok {
		return domain.Product{}, false, nil
	}

	return r.products[i], true, nil
}

// GetProductByID implements Repository.GetProductByID.
func (r *StaticCatalogRepository) GetProductByID(
	ctx context.Context,
	id string,
) (domain.Product, bool, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Product{}, false, nil
	}

	return r.products[i], true, nil
}
