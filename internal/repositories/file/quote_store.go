// Package file implements the quote archive over a single JSON file. It is
// meant for single-process deployments; all access goes through one mutex.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/propuesta-web/api/internal/repositories"
)

type archiveFile struct {
	Quotes []repositories.QuoteRecord `json:"quotes"`
}

// QuoteStore persists quote records in a JSON document on disk. The whole
// file is rewritten on every save, matching the expected low write volume.
type QuoteStore struct {
	mu      sync.Mutex
	path    string
	records archiveFile
	clock   func() time.Time
	newID   func() string
}

// Option adjusts QuoteStore construction.
type Option func(*QuoteStore)

// WithClock overrides the record timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *QuoteStore) { s.clock = clock }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *QuoteStore) { s.newID = gen }
}

// NewQuoteStore opens (or creates) the archive at path. The parent directory
// is created if missing; an existing file is loaded eagerly so a corrupt
// archive fails at startup rather than on first request.
func NewQuoteStore(path string, opts ...Option) (*QuoteStore, error) {
	if path == "" {
		return nil, errors.New("quote store: path is required")
	}
	s := &QuoteStore{
		path:  path,
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("quote store: create directory: %w", err)
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fresh archive
	case err != nil:
		return nil, fmt.Errorf("quote store: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, &s.records); err != nil {
			return nil, fmt.Errorf("quote store: parse %s: %w", path, err)
		}
	}
	return s, nil
}

// Save persists the proposal and returns the new record id.
func (s *QuoteStore) Save(_ context.Context, proposal json.RawMessage) (string, error) {
	if len(proposal) == 0 {
		return "", errors.New("quote store: empty proposal")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := repositories.QuoteRecord{
		ID:        s.newID(),
		CreatedAt: s.clock().UTC(),
		Proposal:  append(json.RawMessage(nil), proposal...),
	}
	s.records.Quotes = append(s.records.Quotes, record)

	if err := s.flushLocked(); err != nil {
		s.records.Quotes = s.records.Quotes[:len(s.records.Quotes)-1]
		return "", err
	}
	return record.ID, nil
}

// Get returns the archived record for id.
func (s *QuoteStore) Get(_ context.Context, id string) (repositories.QuoteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records.Quotes {
		if record.ID == id {
			return record, nil
		}
	}
	return repositories.QuoteRecord{}, repositories.ErrNotFound
}

// Len reports the number of archived quotes.
func (s *QuoteStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records.Quotes)
}

func (s *QuoteStore) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("quote store: encode: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("quote store: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("quote store: replace: %w", err)
	}
	return nil
}
