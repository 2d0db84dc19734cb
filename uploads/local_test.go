package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "nested", "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "abc.png", bytes.NewReader([]byte("png")), 3, "image/png"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, info, err := store.Open(ctx, "abc.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "png" || info.Size != 3 || info.ContentType != "image/png" {
		t.Fatalf("unexpected object %q %+v", body, info)
	}

	names, err := store.List(ctx)
	if err != nil || len(names) != 1 || names[0] != "abc.png" {
		t.Fatalf("List = %v, %v", names, err)
	}

	if err := store.Delete(ctx, "abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Open(ctx, "abc.png"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist after delete, got %v", err)
	}
	if err := store.Delete(ctx, "abc.png"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist deleting twice, got %v", err)
	}
}

func TestLocalStoreRejectsPaths(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("s"), 0o600); err != nil {
		t.Fatal(err)
	}
	store, err := NewLocalStore(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	for _, name := range []string{"../secret.txt", "..", "", `..\secret.txt`, "a/b.png"} {
		if _, _, err := store.Open(context.Background(), name); !errors.Is(err, ErrNotExist) {
			t.Errorf("Open(%q) = %v, want ErrNotExist", name, err)
		}
		if err := store.Save(context.Background(), name, bytes.NewReader(nil), 0, ""); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}
}

type brokenReader struct{}

func (brokenReader) Read(p []byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStoreSaveFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if err := store.Save(context.Background(), "x.png", brokenReader{}, 10, "image/png"); err == nil {
		t.Fatal("expected error from broken reader")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}
