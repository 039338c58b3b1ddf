package catalog_test

import (
	"context"
	"testing"

	"github.com/mkrupp/shopcase/internal/repo/catalog"
)

func setupTestRepo(t *testing.T) *catalog.StaticCatalogRepository {
	t.Helper()

	repo, err := catalog.NewStaticCatalogRepository()
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	return repo
}

func TestStaticCatalogRepository_ListProducts(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}

	if len(products) == 0 {
		t.Fatal("ListProducts() returned no products")
	}

	for _, p := range products {
		if p.ID == "" || p.Slug == "" || p.Title == "" {
			t.Errorf("ListProducts() product %+v missing identity fields", p)
		}
		if p.Price < 0 {
			t.Errorf("ListProducts() product %q has negative price", p.ID)
		}
	}
}

func TestStaticCatalogRepository_GetProductBySlug(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	products, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}

	product, ok, err := repo.GetProductBySlug(ctx, products[0].Slug)
	if err != nil {
		t.Fatalf("GetProductBySlug() error = %v", err)
	}
	if !ok {
		t.Fatalf("GetProductBySlug(%q) not found", products[0].Slug)
	}
	if product.ID != products[0].ID {
		t.Errorf("GetProductBySlug() ID = %q, want %q", product.ID, products[0].ID)
	}

	if _, ok, err := repo.GetProductBySlug(ctx, "no-such-product"); err != nil || ok {
		t.Errorf("GetProductBySlug(missing) = (%v, %v), want not found without error", ok, err)
	}
}

func TestStaticCatalogRepository_GetProductByID(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	products, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}

	product, ok, err := repo.GetProductByID(ctx, products[0].ID)
	if err != nil {
		t.Fatalf("GetProductByID() error = %v", err)
	}
	if !ok {
		t.Fatalf("GetProductByID(%q) not found", products[0].ID)
	}
	if product.Slug != products[0].Slug {
		t.Errorf("GetProductByID() slug = %q, want %q", product.Slug, products[0].Slug)
	}

	if _, ok, err := repo.GetProductByID(ctx, "p-0000"); err != nil || ok {
		t.Errorf("GetProductByID(missing) = (%v, %v), want not found without error", ok, err)
	}
}
