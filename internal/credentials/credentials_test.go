package credentials

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatic(t *testing.T) {
	if token, ok := Static("abc123").Token(); !ok || token != "abc123" {
		t.Errorf("Static(abc123).Token() = %q, %v", token, ok)
	}

	if _, ok := Static("").Token(); ok {
		t.Error("empty Static reported ok = true")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apikit", "token")
	store := NewFileStore(path)

	if _, ok := store.Token(); ok {
		t.Fatal("empty store reported a token")
	}

	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	token, ok := store.Token()
	if !ok || token != "abc123" {
		t.Errorf("Token() = %q, %v, want abc123, true", token, ok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := store.Token(); ok {
		t.Error("cleared store still reported a token")
	}

	// clearing twice is fine
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  abc123\n\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	token, ok := NewFileStore(path).Token()
	if !ok || token != "abc123" {
		t.Errorf("Token() = %q, %v, want abc123, true", token, ok)
	}
}

func TestFileStoreWhitespaceOnlyFileIsNoToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(" \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, ok := NewFileStore(path).Token(); ok {
		t.Error("whitespace-only file reported a token")
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileStore(path)

	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file permissions = %o, want 600", perm)
	}
}
