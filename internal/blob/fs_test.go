package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStoreWrite(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	loc, err := store.Write(context.Background(), "evidence/2025/06/abc.json", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if loc != "evidence/2025/06/abc.json" {
		t.Fatalf("unexpected location: %s", loc)
	}

	data, err := os.ReadFile(filepath.Join(root, "evidence", "2025", "06", "abc.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Fatalf("unexpected content: %s", data)
	}
}

func TestFSStoreOverwriteSameHashPath(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Write(ctx, "evidence/2025/06/h.json", []byte("x")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	// identical payloads hash to the same path; the second write must not fail
	if _, err := store.Write(ctx, "evidence/2025/06/h.json", []byte("x")); err != nil {
		t.Fatalf("second write: %v", err)
	}
}
