package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-record/pkg/openapi"
)

func TestLoaderLoadsFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orders.json")
	if err := os.WriteFile(path, []byte(orderDocument), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := openapi.NewLoader(openapi.LoaderOptions{})
	doc, err := loader.Load(context.Background(), openapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != path {
		t.Fatalf("location = %q", doc.Location())
	}
	if len(doc.Raw()) == 0 {
		t.Fatalf("empty payload")
	}
}

func TestLoaderLoadsFromFS(t *testing.T) {
	t.Parallel()

	loader := openapi.NewLoader(openapi.LoaderOptions{
		FileSystem: fstest.MapFS{
			"orders.json": &fstest.MapFile{Data: []byte(orderDocument)},
		},
	})
	doc, err := loader.Load(context.Background(), openapi.SourceFromFS("orders.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := openapi.NewSchemaSource(context.Background(), doc, openapi.SourceOptions{}); err != nil {
		t.Fatalf("schema source from loaded document: %v", err)
	}

	// FS sources need a configured filesystem.
	bare := openapi.NewLoader(openapi.LoaderOptions{})
	if _, err := bare.Load(context.Background(), openapi.SourceFromFS("orders.json")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoaderLoadsFromURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(orderDocument))
	}))
	defer server.Close()

	loader := openapi.NewLoader(openapi.LoaderOptions{AllowHTTPFallback: true})
	doc, err := loader.Load(context.Background(), openapi.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Raw()) == 0 {
		t.Fatalf("empty payload")
	}

	// HTTP is opt-in.
	disabled := openapi.NewLoader(openapi.LoaderOptions{})
	if _, err := disabled.Load(context.Background(), openapi.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected error with http disabled")
	}
}

func TestLoaderRejectsNilSourceAndBadStatus(t *testing.T) {
	t.Parallel()

	loader := openapi.NewLoader(openapi.LoaderOptions{AllowHTTPFallback: true})
	if _, err := loader.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	if _, err := loader.Load(context.Background(), openapi.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected status error")
	}
}
