package catalog

import (
	"github.com/esmtools/tes3db/internal/archive"
)

// gameSetting maps GMST records. Setting values are strings, integers, or
// floats depending on the key's prefix; a TEXT column keeps all three
// readable without a per-kind split.
type gameSetting struct{}

func (gameSetting) Tag() string { return "GMST" }

func (gameSetting) Schema() TableSchema {
	return TableSchema{
		Name: "game_settings",
		Columns: []Column{
			{Name: "value", Type: ColText},
		},
	}
}

func (gameSetting) JoinSchemas() []JoinTableSchema { return nil }

func (gameSetting) EntityRow(r *archive.Record) ([]any, error) {
	value, err := text(r, "value")
	if err != nil {
		return nil, err
	}
	return []any{value}, nil
}

func (gameSetting) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }

// global maps GLOB records. The game stores shorts, longs, and floats all
// as float, so a single REAL column is faithful.
type global struct{}

func (global) Tag() string { return "GLOB" }

func (global) Schema() TableSchema {
	return TableSchema{
		Name: "globals",
		Columns: []Column{
			{Name: "value", Type: ColReal},
		},
	}
}

func (global) JoinSchemas() []JoinTableSchema { return nil }

func (global) EntityRow(r *archive.Record) ([]any, error) {
	value, err := real(r, "value")
	if err != nil {
		return nil, err
	}
	return []any{value}, nil
}

func (global) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }
