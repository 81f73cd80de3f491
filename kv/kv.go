// Package kv provides the key/value stores ktchn checkpoints its catalogs
// into.
package kv

import (
	"fmt"
	"strings"
)

// Kind names a store implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindDir    Kind = "dir"
	KindSQLite Kind = "sqlite"
)

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindMemory, KindDir, KindSQLite:
		return k, nil
	default:
		return "", fmt.Errorf("unknown store kind: %q", s)
	}
}

// Store is the contract all implementations fulfill. It mirrors ktchn.Store.
type Store interface {
	Load(key string) (data []byte, found bool, err error)
	Save(key string, data []byte) error
	Remove(key string) error
	Close() error
}

// Open opens a store of the given kind. path is the folder of a dir store,
// the database file of a sqlite store, and is ignored by a memory store.
func Open(kind Kind, path string) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindDir:
		return OpenDir(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store kind: %q", kind)
	}
}
