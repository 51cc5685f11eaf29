// Package session provides session-scoped key/value storage backends
// Values live until the terminal session ends or they are removed explicitly
package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("session store closed")

// Store is a string key/value store scoped to one terminal session
// Get reports ok=false for missing keys; a missing key is not an error
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Backend   string // "file", "sqlite" or "memory"
	Dir       string
	SessionID string
}

// Open constructs the backend named in opts
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "file":
		return OpenFile(opts.Dir, opts.SessionID)
	case "sqlite":
		return OpenSQLite(opts.Dir, opts.SessionID)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("session key is required")
	}
	return nil
}
