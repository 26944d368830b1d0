// Package idempotency provides a BoltDB-backed request-dedup store.
//
// Refund approvals are money-moving writes that admins may retry after a
// timeout or a double click. Each approval request carries a caller-chosen
// key; a key that was already consumed means the decision was already made
// and the retry must not create a second Refund row.
package idempotency

import (
	"errors"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "refund_requests"

// ErrDuplicateRequest is returned when a request key was already consumed.
var ErrDuplicateRequest = errors.New("request key already processed")

// Store wraps a BoltDB database holding consumed request keys.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at the given path and ensures the
// request bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Consume atomically records the key. If the key is already present,
// ErrDuplicateRequest is returned and nothing is written, so the first
// caller wins and every retry observes the duplicate.
func (s *Store) Consume(key string) error {
	if key == "" {
		return nil // unkeyed requests are not deduplicated
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get([]byte(key)) != nil {
			return ErrDuplicateRequest
		}
		return b.Put([]byte(key), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// Seen reports whether a key was already consumed.
func (s *Store) Seen(key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	var seen bool
	err := s.db.View(func(tx *bolt.Tx) error {
		seen = tx.Bucket([]byte(bucketName)).Get([]byte(key)) != nil
		return nil
	})
	return seen, err
}
