// Package history holds the client-side view of the service's upload list
// and the poller that keeps it current.
package history

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/upload"
)

// DeletePrompt is the question asked before any delete is issued
const DeletePrompt = "Are you sure you want to delete this upload?"

var (
	// ErrDeleteDeclined is returned when the user does not confirm a delete
	ErrDeleteDeclined = errors.New("delete cancelled")

	// ErrClosed is returned when a result arrives after the store was closed
	ErrClosed = errors.New("upload history closed")
)

// API is the part of the service the store depends on
type API interface {
	List(ctx context.Context) ([]upload.Record, error)
	Delete(ctx context.Context, id upload.ID) error
}

// Confirmer gates destructive actions; returning false blocks the remote call
type Confirmer func(prompt string) bool

// View is a read-only snapshot of the store
type View struct {
	Records   []upload.Record
	Err       string
	Loaded    bool
	UpdatedAt time.Time
}

// Store owns the displayed upload list for one view session. The service
// is the only source of truth: every refresh replaces the list wholesale.
type Store struct {
	api API
	log *logger.Logger

	mu        sync.RWMutex
	records   []upload.Record
	lastErr   error
	loaded    bool
	closed    bool
	updatedAt time.Time
}

// NewStore creates an empty store backed by api
func NewStore(api API, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{api: api, log: log}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Records:   slices.Clone(s.records),
		Loaded:    s.loaded,
		UpdatedAt: s.updatedAt,
	}
	if s.lastErr != nil {
		v.Err = s.lastErr.Error()
	}
	return v
}

// Find returns the record with id from the current list
func (s *Store) Find(id upload.ID) (upload.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return upload.Record{}, false
}

// Refresh fetches the full list and applies it. On failure the previous
// list is kept and the error is recorded for display.
func (s *Store) Refresh(ctx context.Context) ([]upload.Record, error) {
	records, err := s.api.List(ctx)
	if err != nil {
		if !s.Fail(err) {
			return nil, ErrClosed
		}
		return nil, err
	}

	if !s.Apply(records) {
		return nil, ErrClosed
	}
	return records, nil
}

// Apply replaces the list with records. It reports false if the store was
// already closed, in which case the result is dropped.
func (s *Store) Apply(records []upload.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.records = slices.Clone(records)
	s.lastErr = nil
	s.loaded = true
	s.updatedAt = time.Now()
	return true
}

// Fail records a failed fetch without touching the list
func (s *Store) Fail(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.lastErr = err
	s.loaded = true
	s.log.Warn("failed to refresh uploads", logger.Err(err))
	return true
}

// Remove deletes one upload after confirmation. The local list changes
// only once the service acknowledges the delete, so a failure needs no
// rollback.
func (s *Store) Remove(ctx context.Context, id upload.ID, confirm Confirmer) error {
	if confirm == nil || !confirm(DeletePrompt) {
		return ErrDeleteDeclined
	}

	if err := s.api.Delete(ctx, id); err != nil {
		s.mu.Lock()
		if !s.closed {
			s.lastErr = err
		}
		s.mu.Unlock()
		s.log.Warn("failed to delete upload", logger.F("upload_id", id), logger.Err(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.records = slices.DeleteFunc(s.records, func(r upload.Record) bool {
		return r.ID == id
	})
	return nil
}

// Close detaches the store from its view; later results are discarded
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
