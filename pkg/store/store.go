// Package store persists editor documents by name.
//
// A [Store] holds opaque document bodies, normally the JSON written by
// package io. Four backends are provided:
//   - [FileStore]: one JSON file per document in a directory
//   - [SQLiteStore]: a single SQLite database file
//   - [RedisStore]: Redis keys under a prefix, for shared team setups
//   - [MongoStore]: a MongoDB collection
//
// [Open] picks a backend from a target string:
//
//	store.Open(ctx, "./docs", logger)                     // file
//	store.Open(ctx, "sqlite:///home/me/nodes.db", logger) // sqlite
//	store.Open(ctx, "redis://localhost:6379/0", logger)   // redis
//	store.Open(ctx, "mongodb://localhost:27017", logger)  // mongo
//
// Every backend validates names with [errors.ValidateDocumentName], so a name
// accepted by one backend is accepted by all of them.
package store

import (
	"context"
	"time"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// ErrNotFound is returned (wrapped) when a document does not exist.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "document not found")

// Store is a named document store. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns the body of the named document, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put creates or replaces the named document.
	Put(ctx context.Context, name string, body []byte) error

	// Delete removes the named document. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, name string) error

	// List returns all documents sorted by name.
	List(ctx context.Context) ([]Entry, error)

	// Close releases resources held by the store.
	Close() error
}

// Entry describes a stored document.
type Entry struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

func notFound(name string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "document %q", name)
}

func storageError(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}
