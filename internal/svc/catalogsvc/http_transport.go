package catalogsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	http_ "github.com/mkrupp/shopcase/internal/infra/transport/http"
	"github.com/mkrupp/shopcase/internal/svc/authsvc/authclient"
	"github.com/mkrupp/shopcase/internal/util/encoding"
)

var ErrNoMultipartFile = errors.New("no multipart file")

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
// Listen settings belong to the shared server config, not here.
type HTTPTransportConfig struct {
	// MultipartFileName is the form field name for image uploads.
	// Default is "upload".
	MultipartFileName string `env:"MULTIPART_FILE_NAME" default:"upload"`

	// URLWidthParam is the URL parameter for specifying image resize width.
	// Default is "width".
	URLWidthParam string `env:"URL_WIDTH_PARAM" default:"width"`

	// MultipartFormMaxMemory is the maximum allowed memory for multipart form uploads.
	// Default is 10MB.
	MultipartFormMaxMemory int64 `env:"MULTIPART_FORM_MAX_SIZE" default:"10485760"`
}

// HTTPTransport handles HTTP requests for the catalog service.
// It provides public endpoints for browsing products and fetching images,
// and an admin-only endpoint for uploading product images.
type HTTPTransport struct {
	catalogSvc *CatalogService
	authClient authclient.AuthClient
	log        logging.Logger
	cfg        HTTPTransportConfig
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance with the given configuration.
// It requires a CatalogService for handling business logic and an AuthClient
// for guarding the admin routes.
func NewHTTPTransport(
	catalogSvc *CatalogService,
	authClient authclient.AuthClient,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	return &HTTPTransport{
		catalogSvc: catalogSvc,
		authClient: authClient,
		log:        logging.GetLogger("svc.catalogsvc.http_transport"),
		cfg:        cfg,
	}
}

// ServeHTTP implements http.Handler and sets up routes for the catalog service endpoints:
// - GET /products: List catalog products
// - GET /products/{slug}: Get a product by slug
// - GET /images/{image_id}: Download a product image, optionally resized
// - POST /admin/images: Upload a product image (admin only).
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()
	router.HandleFunc("/products", ht.HandleListProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{slug}", ht.HandleGetProduct).Methods(http.MethodGet)
	router.HandleFunc("/images/{image_id}", ht.HandleFetchImage).Methods(http.MethodGet)

	upload := http_.GuardingMiddleware(
		http.HandlerFunc(ht.HandleUploadImage),
		[]domain.Role{domain.RoleAdmin},
		ht.authClient,
		ht.log,
	)
	router.Handle("/admin/images", upload).Methods(http.MethodPost)

	router.ServeHTTP(w, r)
}

// HandleListProducts serves the full product catalog as JSON.
func (ht *HTTPTransport) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListProducts(w, r)
}

func (ht *HTTPTransport) handleListProducts(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list products failed", "error", err)
		} else {
			log.DebugContext(ctx, "products listed")
		}
	}(r.Context())

	products, err := ht.catalogSvc.ListProducts(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("list products: %w", err)
	}

	if err := json.NewEncoder(w).Encode(products); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// HandleGetProduct serves a single product by its URL slug.
func (ht *HTTPTransport) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGetProduct(w, r)
}

func (ht *HTTPTransport) handleGetProduct(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "get product failed", "error", err)
		} else {
			log.DebugContext(ctx, "product fetched")
		}
	}(r.Context())

	slug := mux.Vars(r)["slug"]
	log = log.With(logging.Group("product", "slug", slug))

	product, err := ht.catalogSvc.GetProduct(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("get product: %w", err)
	}

	if err := json.NewEncoder(w).Encode(product); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// HandleFetchImage serves a product image by ID.
// Accepts an optional width parameter for resizing.
func (ht *HTTPTransport) HandleFetchImage(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleFetchImage(w, r)
}

func (ht *HTTPTransport) handleFetchImage(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "image download failed", "error", err)
		} else {
			log.DebugContext(ctx, "image downloaded")
		}
	}(r.Context())

	imageID := encoding.NormalizeCrockfordB32LC(mux.Vars(r)["image_id"])
	log = log.With(logging.Group("image", "id", imageID))

	var width int

	if widthStr := r.URL.Query().Get(ht.cfg.URLWidthParam); widthStr != "" {
		width_, err := strconv.ParseInt(widthStr, 10, 64)
		if err != nil || width_ < 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

			return fmt.Errorf("parse width: %w", err)
		}

		width = int(width_)
	}

	image, err := ht.catalogSvc.FetchImage(r.Context(), domain.BlobID(imageID), width)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("fetch image: %w", err)
	}

	w.Header().Set("Content-Type", image.MIMEType)
	w.Header().Set("Content-Length", strconv.FormatInt(image.Size(), 10))

	if _, err := w.Write(image.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// HandleUploadImage processes product image upload requests.
// Expects a multipart form with a file field matching MultipartFileName config.
func (ht *HTTPTransport) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleUploadImage(w, r)
}

//nolint:funlen
func (ht *HTTPTransport) handleUploadImage(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "image upload failed", "error", err)
		} else {
			log.DebugContext(ctx, "image uploaded")
		}
	}(r.Context())

	if err := r.ParseMultipartForm(ht.cfg.MultipartFormMaxMemory); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("parse multipart form: %w", err)
	}

	file, fileHeader, err := r.FormFile(ht.cfg.MultipartFileName)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("%w: %w", ErrNoMultipartFile, err)
	}
	defer file.Close()

	log = log.With(logging.Group("upload",
		"filename", fileHeader.Filename,
		"size", fileHeader.Size,
	))

	// Check upload constraints before reading the image to buffer
	if _, _, err := ht.catalogSvc.CheckUploadConstraints(
		fileHeader.Filename,
		fileHeader.Size,
		nil,
	); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("upload not allowed: %s: %w", fileHeader.Filename, err)
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("read %s: %w", fileHeader.Filename, err)
	}

	// Re-check upload constraints now that the image has been read
	if _, _, err := ht.catalogSvc.CheckUploadConstraints(
		fileHeader.Filename,
		fileHeader.Size,
		buffer,
	); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("upload not allowed: %s: %w", fileHeader.Filename, err)
	}

	image, err := ht.catalogSvc.StoreImage(r.Context(), buffer)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("store image: %w", err)
	}

	log = log.With(logging.Group("image", "id", image.ID, "type", image.MIMEType))

	response := domain.ImageIDResponse{
		ID:       image.ID.String(),
		MIMEType: image.MIMEType,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
