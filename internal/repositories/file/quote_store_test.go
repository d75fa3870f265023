package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/propuesta-web/api/internal/repositories"
)

func TestQuoteStoreSaveAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "quotes.json")
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	store, err := NewQuoteStore(path,
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string { return "fixed-id" }),
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	ctx := context.Background()
	proposal := json.RawMessage(`{"subtotal":870,"total":1053}`)
	id, err := store.Save(ctx, proposal)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id != "fixed-id" {
		t.Fatalf("unexpected id %q", id)
	}

	record, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !record.CreatedAt.Equal(now) {
		t.Fatalf("unexpected timestamp %v", record.CreatedAt)
	}
	if string(record.Proposal) != string(proposal) {
		t.Fatalf("unexpected proposal %s", record.Proposal)
	}
}

func TestQuoteStoreGetUnknown(t *testing.T) {
	store, err := NewQuoteStore(filepath.Join(t.TempDir(), "quotes.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuoteStoreReloadsExistingArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")

	first, err := NewQuoteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	id, err := first.Save(ctx, json.RawMessage(`{"total":100}`))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := NewQuoteStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	record, err := second.Get(ctx, id)
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if string(record.Proposal) != `{"total":100}` {
		t.Fatalf("unexpected proposal %s", record.Proposal)
	}
	if second.Len() != 1 {
		t.Fatalf("expected one record, got %d", second.Len())
	}
}

func TestQuoteStoreRejectsCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	if _, err := NewQuoteStore(path); err == nil {
		t.Fatalf("expected error for corrupt archive")
	}
}

func TestQuoteStoreRejectsEmptyProposal(t *testing.T) {
	store, err := NewQuoteStore(filepath.Join(t.TempDir(), "quotes.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Save(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty proposal")
	}
}

func TestQuoteStoreFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	store, err := NewQuoteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Save(context.Background(), json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	var shape struct {
		Quotes []json.RawMessage `json:"quotes"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		t.Fatalf("archive is not valid JSON: %v", err)
	}
	if len(shape.Quotes) != 1 {
		t.Fatalf("expected one archived quote, got %d", len(shape.Quotes))
	}
}
