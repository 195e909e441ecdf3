package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/sitesync/internal/domain"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"name", "program", "invoice", "changelog", "sync_buffer", "sync_log", "key_value_store"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		if err := s.verifyPragma(tt.name, tt.expected); err != nil {
			t.Error(err)
		}
	}
}

func TestSchema_EveryDomainTableHasSpec(t *testing.T) {
	s := createTestStore(t)

	for table, spec := range tableSpecs {
		rows, err := s.db.Query(spec.selectSQL())
		if err != nil {
			t.Errorf("select from %s failed: %v", table, err)
			continue
		}
		rows.Close()
	}

	for _, table := range domain.ChangelogTables() {
		if _, err := specFor(table); err != nil {
			t.Errorf("changelog table %s has no spec: %v", table, err)
		}
	}
}

func TestTransaction_CommitsOnSuccess(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(c *Connection) error {
		return c.Upsert(ctx, domain.NameTagRow{ID: "tag1", Name: "Tag"})
	})
	if err != nil {
		t.Fatalf("Transaction() failed: %v", err)
	}

	got, err := FindByID[domain.NameTagRow](ctx, s.Connection(), "tag1")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if got == nil || got.Name != "Tag" {
		t.Errorf("committed row = %+v, want Tag", got)
	}
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(c *Connection) error {
		if err := c.Upsert(ctx, domain.LocationRow{ID: "loc1", Name: "Shelf", Code: "S1", StoreID: "store1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction() error = %v, want boom", err)
	}

	got, err := FindByID[domain.LocationRow](ctx, s.Connection(), "loc1")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("row survived rollback: %+v", got)
	}

	cursor, err := s.Connection().LatestChangelogCursor(ctx)
	if err != nil {
		t.Fatalf("LatestChangelogCursor() failed: %v", err)
	}
	if cursor != 0 {
		t.Errorf("changelog entry survived rollback, cursor = %d", cursor)
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + quote(table)).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
