// Package credentials supplies the bearer token the API client attaches to
// outgoing requests.
//
// The token is written by the authentication flow (apikit login) and read
// back here through the Provider interface - the client never touches the
// storage directly, so tests can substitute a Static provider.
package credentials

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Provider is consulted before every outgoing request. Implementations must
// not perform network I/O and must not fail the lookup: when no token is
// available they return ok=false and the request goes out unauthenticated.
type Provider interface {
	Token() (token string, ok bool)
}

// Static is a fixed token, for tests and one-shot use.
type Static string

func (s Static) Token() (string, bool) {
	return string(s), s != ""
}

// FileStore persists the token in a well-known file so it survives between
// CLI invocations. A missing or unreadable file reads as "no token", never
// as an error.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional token location under the user's
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "apikit", "token"), nil
}

func (f *FileStore) Token() (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Save writes the token with owner-only permissions, creating the parent
// directory if needed.
func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token+"\n"), 0o600)
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
