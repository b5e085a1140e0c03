package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"hiresight/internal/shared/storage/object"
)

func TestOpenReadsUnderBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "models"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "models", "pipeline.json"), []byte(`{"version":1}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := object.ReadAll(context.Background(), New(dir), "models/pipeline.json")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenRejectsEscapingKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../secret", "/etc/passwd", "a/../../b"} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestOpenMissingAndCancelled(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "nope.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Open(ctx, "nope.json"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
