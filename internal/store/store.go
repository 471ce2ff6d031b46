// Package store implements the Badger-backed document store for users and blogs.
package store

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps a Badger database instance.
//
// The store owns the single process-wide database handle: it is opened once
// at startup and closed on shutdown. Documents are JSON-encoded under
// prefixed keys; secondary indexes live under "idx:" keys.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.logger.Info("Badger database opened successfully", "path", path)

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// marshalDoc and unmarshalDoc exist so code running inside a transaction
// encodes documents the same way the top-level helpers do.
func marshalDoc(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalDoc(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

// normalizeEmail lowercases and trims an email address so the uniqueness
// index is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
