package main

import (
	"context"
	"testing"

	"github.com/mkrupp/shopcase/internal/infra/config"
)

//nolint:paralleltest
func TestConfig_SharedHTTPServer(t *testing.T) {
	t.Setenv("SHOPCASE_STORESVC_HTTP_SERVER_ADDR", ":9090")
	t.Setenv("SHOPCASE_STORESVC_CATALOG_HTTP_MULTIPART_FILE_NAME", "image")

	var cfg Config
	if err := config.Parse(context.Background(), &cfg, "SHOPCASE_STORESVC"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// One listener serves both transports; its settings live on the
	// top-level HTTP config.
	if cfg.HTTP.ServerAddr != ":9090" {
		t.Errorf("HTTP.ServerAddr = %q, want :9090", cfg.HTTP.ServerAddr)
	}
	if cfg.CatalogHTTP.MultipartFileName != "image" {
		t.Errorf("CatalogHTTP.MultipartFileName = %q, want %q",
			cfg.CatalogHTTP.MultipartFileName, "image")
	}
}
