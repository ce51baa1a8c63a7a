//go:build !integration

package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoad_DocumentsEveryRoute(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/subscribe"},
		{http.MethodGet, "/subscribe-to-channel"},
		{http.MethodGet, "/send-message"},
		{http.MethodPost, "/send-message"},
		{http.MethodGet, "/setwebhook"},
		{http.MethodGet, "/webhook"},
		{http.MethodPost, "/webhook"},
	}
	for _, rt := range routes {
		item := doc.Paths.Value(rt.path)
		if item == nil {
			t.Errorf("%s missing from document", rt.path)
			continue
		}
		if item.GetOperation(rt.method) == nil {
			t.Errorf("%s %s missing from document", rt.method, rt.path)
		}
	}
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/yaml" {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.Len() != len(document) {
		t.Fatal("document truncated")
	}
}
