package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// LastPostTimeKey is the single key the bot persists.
const LastPostTimeKey = "lastPostTime"

// ErrNotFound is returned by a Backend when a key has never been set.
var ErrNotFound = errors.New("key not found")

// Backend is a minimal string key-value service.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Name() string
	Close() error
}

// StoreReadError wraps a backend failure while reading.
type StoreReadError struct {
	Backend string
	Err     error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("%s store read: %v", e.Backend, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// StoreWriteError wraps a backend failure while writing.
type StoreWriteError struct {
	Backend string
	Err     error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s store write: %v", e.Backend, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// ErrorObserver is notified of degraded store operations ("read" or "write").
type ErrorObserver func(op string)

type Store struct {
	backend Backend
	logger  *logrus.Logger
	observe ErrorObserver
}

func NewStore(backend Backend, logger *logrus.Logger, observe ErrorObserver) *Store {
	if observe == nil {
		observe = func(string) {}
	}
	return &Store{backend: backend, logger: logger, observe: observe}
}

// Backend returns the underlying Backend
func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// LastPostTime returns the stored timestamp, or "" when it is unset.
// Read failures are logged and also reported as "".
func (s *Store) LastPostTime(ctx context.Context) string {
	value, err := s.backend.Get(ctx, LastPostTimeKey)
	if err == nil {
		return value
	}
	if errors.Is(err, ErrNotFound) {
		return ""
	}
	readErr := &StoreReadError{Backend: s.backend.Name(), Err: err}
	s.logger.WithError(readErr).Error("Error fetching last post time")
	s.observe("read")
	return ""
}

// UpdateLastPostTime stores value and reports whether the write succeeded.
func (s *Store) UpdateLastPostTime(ctx context.Context, value string) bool {
	if err := s.backend.Set(ctx, LastPostTimeKey, value); err != nil {
		writeErr := &StoreWriteError{Backend: s.backend.Name(), Err: err}
		s.logger.WithError(writeErr).Error("Error updating last post time")
		s.observe("write")
		return false
	}
	return true
}
