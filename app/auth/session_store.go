package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const SessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind a session cookie.
// UserID is zero for anonymous sessions that only carry flashes.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Flashes   []string  `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists sessions in BadgerDB with a per-entry TTL.
type SessionStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenSessionStore opens the badger directory at dir.
func OpenSessionStore(dir string, ttl time.Duration) (*SessionStore, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return NewSessionStore(db, ttl), nil
}

// NewSessionStore wraps an already opened badger database.
func NewSessionStore(db *badger.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

// New creates and persists an empty session with a fresh random id.
func (s *SessionStore) New() (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a live session.
func (s *SessionStore) Get(id string) (*Session, error) {
	var sess Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		return nil, err
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Save writes sess; badger drops it once ExpiresAt passes.
func (s *SessionStore) Save(sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(SessionKeyPrefix+sess.ID), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(SessionKeyPrefix + id))
	})
}

// Count reports how many live sessions are stored.
func (s *SessionStore) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(SessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Purge drops every session, logging everybody out, and reports how many were removed.
func (s *SessionStore) Purge() (int, error) {
	n, err := s.Count()
	if err != nil {
		return 0, err
	}
	if err := s.db.DropPrefix([]byte(SessionKeyPrefix)); err != nil {
		return 0, fmt.Errorf("drop sessions: %w", err)
	}
	return n, nil
}
