package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("lease agreement.pdf")
	if err != nil || got != "lease agreement.pdf" {
		t.Fatalf("got %q, %v", got, err)
	}

	got, err = SanitizeFileName("a/b\\c.txt")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if strings.ContainsAny(got, "/\\") {
		t.Fatalf("separators not removed: %q", got)
	}

	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatal("traversal must be rejected")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatal("blank name must be rejected")
	}
}

func TestHashOwnerKey(t *testing.T) {
	a := HashOwnerKey("guest:alice")
	b := HashOwnerKey("guest:alice")
	c := HashOwnerKey("guest:bob")
	if a != b {
		t.Fatal("hash must be deterministic")
	}
	if a == c {
		t.Fatal("distinct owners must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}
