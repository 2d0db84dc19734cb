package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/uploads"
)

type brokenStore struct {
	uploads.FileStore
}

func (brokenStore) Open(ctx context.Context, name string) (io.ReadCloser, *uploads.ObjectInfo, error) {
	return nil, nil, errors.New("bucket unreachable")
}

func serveUpload(store uploads.FileStore, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/uploads/:filename", NewUploadController(store).Serve)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServeUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := uploads.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	content := []byte("GIF89a")
	if err := store.Save(context.Background(), "abc.gif", bytes.NewReader(content), int64(len(content)), "image/gif"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := serveUpload(store, "/uploads/abc.gif")
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), content) {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "image/gif" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("unexpected headers %v", w.Header())
	}

	if w := serveUpload(store, "/uploads/missing.gif"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := serveUpload(brokenStore{}, "/uploads/abc.gif"); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
