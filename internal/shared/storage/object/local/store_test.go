package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "owner-1", "note.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("hello world")) {
		t.Fatalf("size = %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("sniffed mime = %q", mimeType)
	}

	body, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("content = %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatal("expected open to fail after delete")
	}
	// Deleting again is a no-op.
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestSaveGeneratesUniqueKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	k1, _, _, err := store.Save(ctx, "owner-1", "note.txt", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save 1: %v", err)
	}
	k2, _, _, err := store.Save(ctx, "owner-1", "note.txt", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save 2: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("same file name must not collide: %q", k1)
	}
}

func TestOpenRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatal("traversal key must be rejected")
	}
}
