// Package store persists verified provider responses in sqlite so that
// repeated passes over the same match do not hit the network again.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an entry ID does not exist.
var ErrNotFound = errors.New("entry not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Passes write from several goroutines; sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_cache (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		request_text TEXT NOT NULL,
		response_text TEXT NOT NULL,
		hit_count INTEGER DEFAULT 0,
		invalidated BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(provider, source_lang, target_lang, request_text)
	);

	CREATE INDEX IF NOT EXISTS idx_cache_lookup ON translation_cache(provider, source_lang, target_lang, request_text);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetTranslation returns the cached response for a provider request.
// Invalidated entries are reported as misses.
func (s *Store) GetTranslation(ctx context.Context, provider, sourceLang, targetLang, text string) (string, bool, error) {
	var response string
	var invalidated bool

	err := s.db.QueryRowContext(ctx,
		`SELECT response_text, invalidated FROM translation_cache WHERE provider = ? AND source_lang = ? AND target_lang = ? AND request_text = ?`,
		provider, sourceLang, targetLang, normalizeText(text)).Scan(&response, &invalidated)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if invalidated {
		return "", false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_cache SET hit_count = hit_count + 1, last_used = ? WHERE provider = ? AND source_lang = ? AND target_lang = ? AND request_text = ?`,
		time.Now(), provider, sourceLang, targetLang, normalizeText(text))

	return response, true, err
}

// SaveTranslation stores or replaces the response for a provider request.
func (s *Store) SaveTranslation(ctx context.Context, provider, sourceLang, targetLang, text, response string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_cache (id, provider, source_lang, target_lang, request_text, response_text, hit_count, invalidated, created_at, last_used)
		 VALUES (?, ?, ?, ?, ?, ?, 0, FALSE, ?, ?)
		 ON CONFLICT(provider, source_lang, target_lang, request_text)
		 DO UPDATE SET response_text = excluded.response_text, invalidated = FALSE, last_used = excluded.last_used`,
		uuid.NewString(), provider, sourceLang, targetLang, normalizeText(text), response, now, now)
	return err
}

// Entry is a row from the translation_cache table.
type Entry struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	SourceLang  string    `json:"source_lang"`
	TargetLang  string    `json:"target_lang"`
	Request     string    `json:"request"`
	Response    string    `json:"response"`
	HitCount    int       `json:"hit_count"`
	Invalidated bool      `json:"invalidated"`
	LastUsed    time.Time `json:"last_used"`
}

// CacheStats summarises cache usage.
type CacheStats struct {
	TotalEntries   int            `json:"total_entries"`
	ActiveEntries  int            `json:"active_entries"`
	InvalidEntries int            `json:"invalid_entries"`
	TotalHits      int            `json:"total_hits"`
	ByProvider     map[string]int `json:"by_provider"`
}

// ListTranslations returns entries ordered by most recently used, optionally
// filtered by provider.
func (s *Store) ListTranslations(ctx context.Context, provider string) ([]Entry, error) {
	query := `SELECT id, provider, source_lang, target_lang, request_text, response_text, hit_count, invalidated, last_used FROM translation_cache`
	var args []any
	if provider != "" {
		query += ` WHERE provider = ?`
		args = append(args, provider)
	}
	query += ` ORDER BY last_used DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Provider, &e.SourceLang, &e.TargetLang, &e.Request, &e.Response, &e.HitCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

func (s *Store) InvalidateTranslation(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE translation_cache SET invalidated = TRUE WHERE id = ?`, id)
}

// DeleteTranslation permanently removes an entry by ID.
func (s *Store) DeleteTranslation(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM translation_cache WHERE id = ?`, id)
}

// ClearTranslations removes every entry, or only those of provider when it
// is not empty.
func (s *Store) ClearTranslations(ctx context.Context, provider string) (int64, error) {
	query := `DELETE FROM translation_cache`
	var args []any
	if provider != "" {
		query += ` WHERE provider = ?`
		args = append(args, provider)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns summary statistics for the cache.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{ByProvider: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(hit_count), 0)
		FROM translation_cache`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalHits,
	)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT provider, COUNT(*) FROM translation_cache GROUP BY provider`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		stats.ByProvider[name] = n
	}
	return stats, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) execOne(ctx context.Context, query string, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
