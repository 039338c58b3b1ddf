package cartsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mkrupp/shopcase/internal/domain"
	context_ "github.com/mkrupp/shopcase/internal/infra/context"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	http_ "github.com/mkrupp/shopcase/internal/infra/transport/http"
	"github.com/mkrupp/shopcase/internal/svc/authsvc/authclient"
)

var (
	// ErrNoOwner is returned when a collection request carries no authenticated user.
	ErrNoOwner = errors.New("no owner")
	// ErrNoQuantity is returned when a quantity update carries no quantity parameter.
	ErrNoQuantity = errors.New("no quantity")
)

// HTTPTransport handles HTTP requests for the cart service.
// Collection routes require an authenticated user of any role; the checkout
// summary is restricted to the client role by the route guard.
type HTTPTransport struct {
	cartSvc    *CartService
	authClient authclient.AuthClient
	log        logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance.
// It requires a CartService for handling business logic and an AuthClient
// for authentication.
func NewHTTPTransport(
	cartSvc *CartService,
	authClient authclient.AuthClient,
) *HTTPTransport {
	return &HTTPTransport{
		cartSvc:    cartSvc,
		authClient: authClient,
		log:        logging.GetLogger("svc.cartsvc.http_transport"),
	}
}

// ServeHTTP implements http.Handler and sets up routes for the cart service endpoints:
// - GET /collections/{kind}: Current collection snapshot
// - DELETE /collections/{kind}: Clear the collection
// - POST /collections/{kind}/items: Add a line item
// - PUT /collections/{kind}/items/{item_id}: Update a line item's quantity
// - DELETE /collections/{kind}/items/{item_id}: Remove a line item
// - POST /collections/{kind}/toggle: Toggle a line item's membership
// - GET /checkout/summary: Cart snapshot with display totals (clients only).
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()

	collections := mux.NewRouter()
	collections.HandleFunc("/collections/{kind}", ht.HandleGet).Methods(http.MethodGet)
	collections.HandleFunc("/collections/{kind}", ht.HandleClear).Methods(http.MethodDelete)
	collections.HandleFunc("/collections/{kind}/items", ht.HandleAddItem).Methods(http.MethodPost)
	collections.HandleFunc("/collections/{kind}/items/{item_id}", ht.HandleUpdateQuantity).Methods(http.MethodPut)
	collections.HandleFunc("/collections/{kind}/items/{item_id}", ht.HandleRemoveItem).Methods(http.MethodDelete)
	collections.HandleFunc("/collections/{kind}/toggle", ht.HandleToggleItem).Methods(http.MethodPost)

	router.PathPrefix("/collections/").Handler(
		http_.AuthorizingMiddleware(collections, ht.authClient, ht.log),
	)

	router.Handle("/checkout/summary", http_.GuardingMiddleware(
		http.HandlerFunc(ht.HandleCheckoutSummary),
		[]domain.Role{domain.RoleClient},
		ht.authClient,
		ht.log,
	)).Methods(http.MethodGet)

	router.ServeHTTP(w, r)
}

func (ht *HTTPTransport) requestScope(r *http.Request) (owner string, kind domain.CollectionKind, err error) {
	owner, ok := context_.UsernameFromContext(r.Context())
	if !ok || owner == "" {
		return "", "", ErrNoOwner
	}

	kind, err = domain.ParseCollectionKind(mux.Vars(r)["kind"])
	if err != nil {
		return "", "", fmt.Errorf("parse kind: %w", err)
	}

	return owner, kind, nil
}

func itemKeyFromRequest(r *http.Request) domain.ItemKey {
	return domain.ItemKey{
		ID:    mux.Vars(r)["item_id"],
		Color: r.URL.Query().Get("color"),
		Size:  r.URL.Query().Get("size"),
	}
}

func writeCollection(w http.ResponseWriter, snapshot domain.Collection) error {
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// HandleGet serves the current collection snapshot.
func (ht *HTTPTransport) HandleGet(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGet(w, r)
}

func (ht *HTTPTransport) handleGet(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "collection get failed", "error", err)
		} else {
			log.DebugContext(ctx, "collection fetched")
		}
	}(r.Context())

	owner, kind, err := ht.requestScope(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	return writeCollection(w, ht.cartSvc.Get(r.Context(), owner, kind))
}

// HandleClear empties the collection.
func (ht *HTTPTransport) HandleClear(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleClear(w, r)
}

func (ht *HTTPTransport) handleClear(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "collection clear failed", "error", err)
		} else {
			log.DebugContext(ctx, "collection cleared")
		}
	}(r.Context())

	owner, kind, err := ht.requestScope(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	return writeCollection(w, ht.cartSvc.Clear(r.Context(), owner, kind))
}

// HandleAddItem adds a line item to the collection.
// Expects the line item as a JSON request body.
func (ht *HTTPTransport) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleAddItem(w, r)
}

func (ht *HTTPTransport) handleAddItem(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "item add failed", "error", err)
		} else {
			log.DebugContext(ctx, "item added")
		}
	}(r.Context())

	owner, kind, err := ht.requestScope(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	var item domain.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode item: %w", err)
	}

	snapshot, err := ht.cartSvc.AddItem(r.Context(), owner, kind, item)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("add item: %w", err)
	}

	return writeCollection(w, snapshot)
}

// HandleUpdateQuantity sets the quantity of a line item.
// Expects a "quantity" query parameter; zero or below removes the item.
func (ht *HTTPTransport) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleUpdateQuantity(w, r)
}

func (ht *HTTPTransport) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "quantity update failed", "error", err)
		} else {
			log.DebugContext(ctx, "quantity updated")
		}
	}(r.Context())

	owner, kind, err := ht.requestScope(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	quantityStr := r.URL.Query().Get("quantity")
	if quantityStr == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return ErrNoQuantity
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("parse quantity: %w", err)
	}

	snapshot := ht.cartSvc.UpdateQuantity(r.Context(), owner, kind, itemKeyFromRequest(r), quantity)

	return writeCollection(w, snapshot)
}

// HandleRemoveItem removes a line item from the collection.
// Variant selections are passed as "color" and "size" query parameters.
func (ht *HTTPTransport) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleRemoveItem(w, r)
}

func (ht *HTTPTransport) handleRemoveItem(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "item remove failed", "error", err)
		} else {
			log.DebugContext(ctx, "item removed")
		}
	}(r.Context())

	owner, kind, err := ht.requestScope(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	return writeCollection(w, ht.cartSvc.RemoveItem(r.Context(), owner, kind, itemKeyFromRequest(r)))
}

// HandleToggleItem toggles a line item's collection membership.
// Expects the line item as a JSON request body.
func (ht *HTTPTransport) HandleToggleItem(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleToggleItem(w, r)
}

func (ht *HTTPTransport) handleToggleItem(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "item toggle failed", "error", err)
		} else {
			log.DebugContext(ctx, "item toggled")
		}
	}(r.Context())

	owner, kind, err := ht.requestScope(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	var item domain.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode item: %w", err)
	}

	snapshot, err := ht.cartSvc.ToggleItem(r.Context(), owner, kind, item)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("toggle item: %w", err)
	}

	return writeCollection(w, snapshot)
}

// CheckoutSummaryResponse is the cart snapshot plus its display totals.
type CheckoutSummaryResponse struct {
	Cart   domain.Collection `json:"cart"`
	Totals domain.Totals     `json:"totals"`
}

// HandleCheckoutSummary serves the cart with its display-rounded totals.
func (ht *HTTPTransport) HandleCheckoutSummary(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleCheckoutSummary(w, r)
}

func (ht *HTTPTransport) handleCheckoutSummary(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "checkout summary failed", "error", err)
		} else {
			log.DebugContext(ctx, "checkout summary served")
		}
	}(r.Context())

	owner, ok := context_.UsernameFromContext(r.Context())
	if !ok || owner == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return ErrNoOwner
	}

	cart, totals := ht.cartSvc.Summary(r.Context(), owner)

	response := CheckoutSummaryResponse{Cart: cart, Totals: totals}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
