// Package version persists immutable deck snapshots in SQLite and
// answers diff/restore queries over them. The store is append-only:
// versions are never updated or deleted, and every read hands out a
// fresh copy so callers cannot mutate history.
package version

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

// ErrVersionNotFound is returned when no snapshot matches the query.
var ErrVersionNotFound = errors.New("version not found")

// Store is the SQLite-backed snapshot store. Writes are serialized per
// deck id; reads run concurrently.
type Store struct {
	db *sql.DB

	mu        sync.Mutex
	deckLocks map[string]*sync.Mutex
}

// Open initializes the store at the given path, creating the directory
// and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create version store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open version store: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS deck_versions (
		id TEXT PRIMARY KEY,
		deck_id TEXT NOT NULL,
		label TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_deck_versions_deck ON deck_versions(deck_id, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create version schema: %w", err)
	}

	logging.Version("version store opened at %s", path)
	return &Store{db: db, deckLocks: map[string]*sync.Mutex{}}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) lockDeck(deckID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.deckLocks[deckID]
	if !ok {
		l = &sync.Mutex{}
		s.deckLocks[deckID] = l
	}
	return l
}

// SaveVersion stores a deep, independent snapshot of the deck and
// returns the new version id. An empty label auto-numbers as "v{n}"
// where n counts this deck's snapshots. Writes to the same deck are
// serialized so auto-labels never collide.
func (s *Store) SaveVersion(ctx context.Context, deckID string, deck *ir.Deck, label string) (string, error) {
	if deck == nil {
		return "", fmt.Errorf("save version for deck %s: nil deck", deckID)
	}
	// Marshaling snapshots the deck; later caller mutations cannot
	// reach the stored payload.
	payload, err := json.Marshal(deck)
	if err != nil {
		return "", fmt.Errorf("encode deck %s: %w", deckID, err)
	}

	l := s.lockDeck(deckID)
	l.Lock()
	defer l.Unlock()

	if label == "" {
		var n int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM deck_versions WHERE deck_id = ?", deckID).Scan(&n)
		if err != nil {
			return "", fmt.Errorf("count versions for deck %s: %w", deckID, err)
		}
		label = fmt.Sprintf("v%d", n+1)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO deck_versions (id, deck_id, label, created_at, payload) VALUES (?, ?, ?, ?, ?)",
		id, deckID, label, time.Now().UTC(), string(payload))
	if err != nil {
		return "", fmt.Errorf("insert version for deck %s: %w", deckID, err)
	}
	logging.Version("deck %s snapshot %s saved as %q", deckID, id, label)
	return id, nil
}

// GetVersion returns a fresh copy of one snapshot.
func (s *Store) GetVersion(ctx context.Context, deckID, versionID string) (*ir.Version, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, deck_id, label, created_at, payload FROM deck_versions WHERE deck_id = ? AND id = ?",
		deckID, versionID)
	return scanVersion(row)
}

// RestoreVersion returns a fresh deep copy of the snapshot's deck,
// ready to replace the working IR. The stored payload is untouched.
func (s *Store) RestoreVersion(ctx context.Context, deckID, versionID string) (*ir.Deck, error) {
	v, err := s.GetVersion(ctx, deckID, versionID)
	if err != nil {
		return nil, err
	}
	logging.Version("deck %s restored from %s (%s)", deckID, v.ID, v.Label)
	return v.Deck, nil
}

// ListVersions returns this deck's snapshots, oldest first, with
// payloads decoded.
func (s *Store) ListVersions(ctx context.Context, deckID string) ([]*ir.Version, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, deck_id, label, created_at, payload FROM deck_versions WHERE deck_id = ? ORDER BY created_at, id",
		deckID)
	if err != nil {
		return nil, fmt.Errorf("list versions for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	var out []*ir.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row rowScanner) (*ir.Version, error) {
	var v ir.Version
	var payload string
	err := row.Scan(&v.ID, &v.DeckID, &v.Label, &v.CreatedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan version: %w", err)
	}
	var deck ir.Deck
	if err := json.Unmarshal([]byte(payload), &deck); err != nil {
		return nil, fmt.Errorf("decode version %s payload: %w", v.ID, err)
	}
	v.Deck = &deck
	return &v, nil
}
