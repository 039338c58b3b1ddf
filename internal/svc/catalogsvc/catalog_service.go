package catalogsvc

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	"github.com/mkrupp/shopcase/internal/repo/blob"
	"github.com/mkrupp/shopcase/internal/repo/catalog"
	"github.com/mkrupp/shopcase/internal/util/encoding"
)

// CatalogService serves the read-only product catalog and its images.
// Product data comes from the catalog repository; image originals live in
// content-addressed blob storage with resized renditions cached alongside.
type CatalogService struct {
	catalogRepo catalog.Repository
	imageRepo   blob.Repository
	cacheRepo   blob.Repository
	cfg         CatalogConfig
	log         logging.Logger
}

// NewCatalogService creates a new CatalogService with the given configuration.
// It initializes two blob repositories:
// - images: for storing original product images
// - cache: for storing resized renditions
// Returns an error if any repository initialization fails.
func NewCatalogService(
	ctx context.Context,
	catalogFactory catalog.RepositoryFactory,
	blobFactory blob.RepositoryFactory,
	cfg CatalogConfig,
) (*CatalogService, error) {
	log := logging.GetLogger("svc.catalogsvc.catalog_service")

	catalogRepo, err := catalogFactory()
	if err != nil {
		return nil, fmt.Errorf("new catalog repository: %w", err)
	}

	imageRepo, err := blobFactory(ctx, "images", "bin")
	if err != nil {
		return nil, fmt.Errorf("new image repository: %w", err)
	}

	cacheRepo, err := blobFactory(ctx, "cache", "bin")
	if err != nil {
		return nil, fmt.Errorf("new cache repository: %w", err)
	}

	return &CatalogService{
		catalogRepo: catalogRepo,
		imageRepo:   imageRepo,
		cacheRepo:   cacheRepo,
		cfg:         cfg,
		log:         log,
	}, nil
}

// ListProducts returns all catalog products in display order.
func (svc *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := svc.catalogRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a product by its URL slug.
// Returns ErrProductNotFound if no product carries the slug.
func (svc *CatalogService) GetProduct(ctx context.Context, slug string) (domain.Product, error) {
	product, ok, err := svc.catalogRepo.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	} else if !ok {
		return domain.Product{}, fmt.Errorf("%w: %q", domain.ErrProductNotFound, slug)
	}

	return product, nil
}

// MaxImageSize returns the maximum allowed image upload size in bytes.
func (svc *CatalogService) MaxImageSize() int64 {
	return svc.cfg.MaxImageSize
}

// CheckUploadConstraints checks if the given file meets the upload constraints.
// When image content is provided, the file extension must match the sniffed
// content type. Returns the MIME type and whether the upload is allowed.
func (svc *CatalogService) CheckUploadConstraints(
	filename string,
	size int64,
	image []byte,
) (string, bool, error) {
	if size > svc.cfg.MaxImageSize {
		return "", false, domain.ErrImageTooLarge
	}

	filenameExt := strings.ToLower(filepath.Ext(filename))

	imageType, ok := imageExtTypes[filenameExt]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", domain.ErrImageTypeNotSupported, filenameExt)
	}

	if image == nil {
		return "", true, nil
	}

	sniffed, err := sniffImageType(image)
	if err != nil || sniffed != imageType {
		return "", false, fmt.Errorf("%w: %q", domain.ErrImageTypeMismatch, filenameExt)
	}

	return imageType, true, nil
}

// StoreImage persists a product image in content-addressed storage. The
// image ID is derived from the content hash, so storing the same bytes twice
// is idempotent.
func (svc *CatalogService) StoreImage(
	ctx context.Context,
	data []byte,
) (image domain.ProductImage, err error) {
	log := svc.log.With(logging.Group("image", "size", len(data)))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "image store failed", "error", err)
		} else {
			log.DebugContext(ctx, "image stored")
		}
	}()

	if int64(len(data)) > svc.cfg.MaxImageSize {
		return domain.ProductImage{}, fmt.Errorf("%w: %d exceeds %d",
			domain.ErrImageTooLarge, len(data), svc.cfg.MaxImageSize)
	}

	mimeType, err := sniffImageType(data)
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("sniff image type: %w", err)
	}

	hash := sha256.Sum256(data)
	imageID := domain.BlobID(encoding.EncodeCrockfordB32LC(hash[:]))

	log = log.With(logging.Group("image", "id", imageID, "type", mimeType))

	unlock, err := svc.imageRepo.Lock(ctx, imageID, true)
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("lock image: %w", err)
	}
	defer unlock()

	if !svc.imageRepo.Exists(ctx, imageID) {
		if err := svc.imageRepo.Store(ctx, domain.NewBlob(imageID, data)); err != nil {
			return domain.ProductImage{}, fmt.Errorf("store image: %w", err)
		}
	}

	return domain.NewProductImage(imageID, mimeType, data), nil
}

// FetchImage retrieves a product image, optionally resized to the given
// width. Resized renditions are cached; a cache hit skips the resize.
// If width is zero, the original image is returned.
//
//nolint:funlen
func (svc *CatalogService) FetchImage(
	ctx context.Context,
	imageID domain.BlobID,
	width int,
) (image domain.ProductImage, err error) {
	log := svc.log.With(logging.Group("image", "id", imageID, "width", width))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "image fetch failed", "error", err)
		} else {
			log.DebugContext(ctx, "image fetched")
		}
	}()

	// Fetch original
	unlock, err := svc.imageRepo.Lock(ctx, imageID, false)
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("lock image: %w", err)
	}
	defer unlock()

	if !svc.imageRepo.Exists(ctx, imageID) {
		return domain.ProductImage{}, fmt.Errorf("%w: %q", domain.ErrImageNotFound, imageID)
	}

	imageBlob, err := svc.imageRepo.Fetch(ctx, imageID)
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("fetch image: %w", err)
	}

	mimeType, err := sniffImageType(imageBlob.Bytes())
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("sniff image type: %w", err)
	}

	if width == 0 {
		// Return original image
		return domain.NewProductImage(imageID, mimeType, imageBlob.Bytes()), nil
	}

	// Try serve from cache
	cacheID := domain.BlobID(fmt.Sprintf("%s_%d", imageID, width))

	unlockCache, err := svc.cacheRepo.Lock(ctx, cacheID, false)
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("lock cache: %w", err)
	}
	defer unlockCache()

	if svc.cacheRepo.Exists(ctx, cacheID) {
		cacheBlob, err := svc.cacheRepo.Fetch(ctx, cacheID)
		if err != nil {
			return domain.ProductImage{}, fmt.Errorf("fetch cache: %w", err)
		}

		log = log.With(logging.Group("image", "cached", true))

		return domain.NewProductImage(imageID, mimeType, cacheBlob.Bytes()), nil
	}

	// Resize image
	resized, err := svc.resizeImage(ctx, imageBlob.Bytes(), mimeType, width)
	if err != nil {
		return domain.ProductImage{}, fmt.Errorf("resize image: %w", err)
	}

	// Update cache
	if err := svc.cacheRepo.Store(ctx, domain.NewBlob(cacheID, resized)); err != nil {
		return domain.ProductImage{}, fmt.Errorf("store cache: %w", err)
	}

	return domain.NewProductImage(imageID, mimeType, resized), nil
}

func (svc *CatalogService) resizeImage(
	ctx context.Context,
	data []byte,
	ctype string,
	width int,
) (resized []byte, err error) {
	log := svc.log.With(logging.Group("image",
		"type", ctype,
		logging.Group("target", "width", width),
	))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "image resize failed", "error", err)
		} else {
			log.DebugContext(ctx, "image resized")
		}
	}()

	return resizeImage(data, ctype, width, svc.cfg.Interpolator)
}
