package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenStaging_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staging.db")

	s, err := OpenStaging(path)
	if err != nil {
		t.Fatalf("OpenStaging() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestOpenStaging_AppliesWriteProfile(t *testing.T) {
	s, err := OpenStaging(filepath.Join(t.TempDir(), "staging.db"))
	if err != nil {
		t.Fatalf("OpenStaging() failed: %v", err)
	}
	defer s.Close()

	checks := map[string]string{
		"journal_mode": "off",
		"synchronous":  "0",
		"cache_size":   "-65536",
		"mmap_size":    "268435456",
		"locking_mode": "exclusive",
		"foreign_keys": "0",
	}
	for name, expected := range checks {
		if err := s.verifyPragma(name, expected); err != nil {
			t.Errorf("staging profile: %v", err)
		}
	}
}

func TestOpenReadOptimized_AppliesReadProfile(t *testing.T) {
	s, err := OpenReadOptimized(filepath.Join(t.TempDir(), "read.db"))
	if err != nil {
		t.Fatalf("OpenReadOptimized() failed: %v", err)
	}
	defer s.Close()

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, expected := range checks {
		if err := s.verifyPragma(name, expected); err != nil {
			t.Errorf("read profile: %v", err)
		}
	}
}

func TestApplySchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStaging(filepath.Join(t.TempDir(), "staging.db"))
	if err != nil {
		t.Fatalf("OpenStaging() failed: %v", err)
	}
	defer s.Close()

	script := "CREATE TABLE IF NOT EXISTS things (key TEXT PRIMARY KEY, value TEXT)"
	for i := 0; i < 3; i++ {
		if err := s.ApplySchema(ctx, script); err != nil {
			t.Fatalf("ApplySchema() iteration %d failed: %v", i, err)
		}
	}

	var name string
	err = s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='things'",
	).Scan(&name)
	if err != nil {
		t.Errorf("table not found after idempotent applies: %v", err)
	}
}

func TestBegin_CommitPersistsRows(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStaging(filepath.Join(t.TempDir(), "staging.db"))
	if err != nil {
		t.Fatalf("OpenStaging() failed: %v", err)
	}
	defer s.Close()

	if err := s.ApplySchema(ctx, "CREATE TABLE IF NOT EXISTS t (v TEXT)"); err != nil {
		t.Fatalf("ApplySchema() failed: %v", err)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES (?)", "a"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM t").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := OpenStaging("/nonexistent/dir/staging.db")
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

func TestClose_MultipleCalls(t *testing.T) {
	s, err := OpenStaging(filepath.Join(t.TempDir(), "staging.db"))
	if err != nil {
		t.Fatalf("OpenStaging() failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}
	// Second close must not panic.
	_ = s.Close()
}
