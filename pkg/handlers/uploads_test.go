package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestUploadsHandler_Serve(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "abc.jpg"), []byte("image-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := NewUploadsHandler(dir, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/uploads/abc.jpg", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "image-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestUploadsHandler_RejectsSuspiciousNames(t *testing.T) {
	dir := t.TempDir()
	// Plant a file outside the uploads dir that must stay unreachable.
	outside := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	uploads := filepath.Join(dir, "uploads")
	if err := os.Mkdir(uploads, 0o755); err != nil {
		t.Fatal(err)
	}

	handler := NewUploadsHandler(uploads, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	for _, name := range []string{"..%2Fsecret.txt", ".hidden"} {
		req := httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %q status = %d, want 404", name, rec.Code)
		}
	}
}

func TestUploadsHandler_MissingFile(t *testing.T) {
	handler := NewUploadsHandler(t.TempDir(), zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/uploads/nope.jpg", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
