package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"retailpulse/models"
)

const historyPrefix = "query_hist:"

// HistoryStore is a badger-backed audit log of every statement executed
// against the warehouse.
type HistoryStore struct {
	badgerDB *badger.DB
}

func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return &HistoryStore{badgerDB: badgerDB}, nil
}

func (s *HistoryStore) Close() error {
	return s.badgerDB.Close()
}

// Record appends one history entry. Keys embed a zero-padded nanosecond
// timestamp so iteration order is chronological.
func (s *HistoryStore) Record(entry models.QueryHistoryEntry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Format(time.RFC3339)
	}

	return s.badgerDB.Update(func(txn *badger.Txn) error {
		key := []byte(fmt.Sprintf("%s%020d", historyPrefix, time.Now().UnixNano()))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return txn.Set(key, data)
	})
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *HistoryStore) List(limit int) ([]models.QueryHistoryEntry, error) {
	var entries []models.QueryHistoryEntry

	err := s.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past every history entry.
		seek := append([]byte(historyPrefix), 0xFF)
		for it.Seek(seek); it.Valid(); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			err := it.Item().Value(func(val []byte) error {
				var entry models.QueryHistoryEntry
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return entries, err
}
