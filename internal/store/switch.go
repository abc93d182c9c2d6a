package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// Violation is one dangling reference reported by the post-load check.
type Violation struct {
	Table  string `yaml:"table"`
	RowID  int64  `yaml:"rowid"`
	Parent string `yaml:"parent"`
}

// CheckForeignKeys runs PRAGMA foreign_key_check across the database.
// Staging keeps enforcement off, so this is where dangling references
// surface. Findings are diagnostics: callers report them and keep the
// data, matching how the game engine treats such references.
func (s *Store) CheckForeignKeys(ctx context.Context) ([]Violation, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return nil, fmt.Errorf("foreign key check: %w", err)
	}
	defer rows.Close()

	var violations []Violation
	for rows.Next() {
		var v Violation
		var rowid sql.NullInt64
		var fkIndex int64
		if err := rows.Scan(&v.Table, &rowid, &v.Parent, &fkIndex); err != nil {
			return nil, fmt.Errorf("foreign key check: %w", err)
		}
		v.RowID = rowid.Int64
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("foreign key check: %w", err)
	}
	return violations, nil
}

// CompactTo clones the database into a minimal-size copy at path via
// VACUUM INTO. Free pages are not carried over, so the copy is as small
// as the data allows. An existing file at path is replaced, which keeps
// repeated exports to the same output idempotent.
func (s *Store) CompactTo(ctx context.Context, path string) error {
	// VACUUM INTO refuses to write over an existing file.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale artifact: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("compact into %s: %w", path, err)
	}
	return nil
}

// FinalizeForReads opens the artifact under the read profile and closes
// it again. journal_mode=WAL is persistent in the database file, so the
// profile sticks for every later reader.
func FinalizeForReads(path string) error {
	s, err := OpenReadOptimized(path)
	if err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}
