// Package repositories defines the persistence contracts of the API.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("repositories: not found")

// QuoteRecord is one archived proposal snapshot.
type QuoteRecord struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Proposal  json.RawMessage `json:"proposal"`
}

// QuoteArchive stores proposal snapshots so a quote can be referenced after
// the conversation ends.
type QuoteArchive interface {
	// Save persists the proposal and returns the generated record id.
	Save(ctx context.Context, proposal json.RawMessage) (string, error)
	// Get returns the record for the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (QuoteRecord, error)
}
