package catalog

import (
	"github.com/esmtools/tes3db/internal/archive"
)

// header maps the TES3 archive header. Registered so the table exists in
// every export; the loader skips header records, so it stays empty.
type header struct{}

func (header) Tag() string { return HeaderTag }

func (header) Schema() TableSchema {
	return TableSchema{
		Name: "header",
		Columns: []Column{
			{Name: "version", Type: ColReal},
			{Name: "author", Type: ColText},
			{Name: "description", Type: ColText},
		},
	}
}

func (header) JoinSchemas() []JoinTableSchema { return nil }

func (header) EntityRow(r *archive.Record) ([]any, error) {
	version, err := real(r, "version")
	if err != nil {
		return nil, err
	}
	author, err := text(r, "author")
	if err != nil {
		return nil, err
	}
	description, err := text(r, "description")
	if err != nil {
		return nil, err
	}
	return []any{version, author, description}, nil
}

func (header) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }
