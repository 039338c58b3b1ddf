package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mkrupp/shopcase/internal/infra/config"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	http_ "github.com/mkrupp/shopcase/internal/infra/transport/http"
	"github.com/mkrupp/shopcase/internal/repo/blob"
	"github.com/mkrupp/shopcase/internal/repo/catalog"
	"github.com/mkrupp/shopcase/internal/repo/collection"
	"github.com/mkrupp/shopcase/internal/svc/authsvc/authclient"
	"github.com/mkrupp/shopcase/internal/svc/cartsvc"
	"github.com/mkrupp/shopcase/internal/svc/catalogsvc"
)

const (
	appName = "shopcase"
	svcName = "storesvc"
)

type Config struct {
	config.EnvConfig

	Log         logging.LoggerConfig                        `envPrefix:"LOG_"`
	HTTP        http_.HTTPTransportConfig                   `envPrefix:"HTTP_"`
	Catalog     catalogsvc.CatalogConfig                    `envPrefix:"CATALOG_"`
	CatalogHTTP catalogsvc.HTTPTransportConfig              `envPrefix:"CATALOG_HTTP_"`
	AuthClient  authclient.HTTPClientConfig                 `envPrefix:"AUTH_CLIENT_"`
	Blob        blob.FileSystemBlobRepositoryConfig         `envPrefix:"BLOB_"`
	Collection  collection.SQLiteCollectionRepositoryConfig `envPrefix:"COLLECTION_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.storesvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
			panic(err)
		}

		log.InfoContext(ctx, "shutdown")
	}()

	authClient := authclient.NewHTTPClient(cfg.AuthClient, nil)

	catalogSvc, err := catalogsvc.NewCatalogService(
		ctx,
		catalog.StaticCatalogRepositoryFactory(),
		blob.FileSystemBlobRepositoryFactory(cfg.Blob),
		cfg.Catalog,
	)
	if err != nil {
		return fmt.Errorf("new catalog service: %w", err)
	}

	cartSvc, err := cartsvc.NewCartService(
		collection.SQLiteCollectionRepositoryFactory(cfg.Collection),
	)
	if err != nil {
		return fmt.Errorf("new cart service: %w", err)
	}
	defer cartSvc.Close()

	catalogTransport := catalogsvc.NewHTTPTransport(catalogSvc, authClient, cfg.CatalogHTTP)
	cartTransport := cartsvc.NewHTTPTransport(cartSvc, authClient)

	router := mux.NewRouter()
	router.PathPrefix("/products").Handler(catalogTransport)
	router.PathPrefix("/images").Handler(catalogTransport)
	router.PathPrefix("/admin").Handler(catalogTransport)
	router.PathPrefix("/collections").Handler(cartTransport)
	router.PathPrefix("/checkout").Handler(cartTransport)

	if err := http_.ListenAndServe(ctx, router, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
