package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_GetTranslation_Miss(t *testing.T) {
	s := newTestStore(t)

	text, found, err := s.GetTranslation(context.Background(), "google", "en", "es", "<html><p>cat</p></html>")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if found || text != "" {
		t.Errorf("expected miss, got %q", text)
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveTranslation(ctx, "google", "en", "es", "<html><p>cat</p></html>", "<html><p>gato</p></html>"); err != nil {
		t.Fatalf("SaveTranslation failed: %v", err)
	}

	// Surrounding whitespace does not change the key.
	text, found, err := s.GetTranslation(ctx, "google", "en", "es", "  <html><p>cat</p></html>\n")
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if text != "<html><p>gato</p></html>" {
		t.Errorf("unexpected response %q", text)
	}

	if _, found, _ := s.GetTranslation(ctx, "apertium", "en", "es", "<html><p>cat</p></html>"); found {
		t.Error("entries are per provider")
	}
	if _, found, _ := s.GetTranslation(ctx, "google", "es", "en", "<html><p>cat</p></html>"); found {
		t.Error("entries are per direction")
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gata")
	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gato")

	entries, err := s.ListTranslations(ctx, "")
	if err != nil {
		t.Fatalf("ListTranslations failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Response != "gato" {
		t.Errorf("expected one replaced entry, got %+v", entries)
	}
}

func TestStore_HitCountAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gato")
	s.SaveTranslation(ctx, "apertium", "en", "es", "cat", "gato")
	s.GetTranslation(ctx, "google", "en", "es", "cat")
	s.GetTranslation(ctx, "google", "en", "es", "cat")

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 2 || stats.ActiveEntries != 2 || stats.TotalHits != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.ByProvider["google"] != 1 || stats.ByProvider["apertium"] != 1 {
		t.Errorf("unexpected per-provider counts %v", stats.ByProvider)
	}
}

func TestStore_Invalidate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gato")
	entries, _ := s.ListTranslations(ctx, "google")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if err := s.InvalidateTranslation(ctx, entries[0].ID); err != nil {
		t.Fatalf("InvalidateTranslation failed: %v", err)
	}
	if _, found, _ := s.GetTranslation(ctx, "google", "en", "es", "cat"); found {
		t.Error("invalidated entry must be a miss")
	}
	stats, _ := s.Stats(ctx)
	if stats.InvalidEntries != 1 {
		t.Errorf("expected 1 invalid entry, got %+v", stats)
	}

	// Saving again revives the entry.
	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gato")
	if _, found, _ := s.GetTranslation(ctx, "google", "en", "es", "cat"); !found {
		t.Error("expected entry to be valid again")
	}
}

func TestStore_DeleteTranslation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gato")
	entries, _ := s.ListTranslations(ctx, "")

	if err := s.DeleteTranslation(ctx, entries[0].ID); err != nil {
		t.Fatalf("DeleteTranslation failed: %v", err)
	}
	if err := s.DeleteTranslation(ctx, entries[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ClearTranslations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveTranslation(ctx, "google", "en", "es", "cat", "gato")
	s.SaveTranslation(ctx, "google", "en", "es", "dog", "perro")
	s.SaveTranslation(ctx, "apertium", "en", "es", "cat", "gato")

	n, err := s.ClearTranslations(ctx, "google")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d (%v)", n, err)
	}
	n, err = s.ClearTranslations(ctx, "")
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted, got %d (%v)", n, err)
	}
	entries, _ := s.ListTranslations(ctx, "")
	if len(entries) != 0 {
		t.Errorf("expected empty cache, got %d entries", len(entries))
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Hello  ", "Hello"},
		{"Cafe\u0301", "Caf\u00e9"},
		{"\t\nHello\t\n", "Hello"},
		{"", ""},
	}

	for _, tt := range tests {
		result := normalizeText(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
