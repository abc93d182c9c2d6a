package catalog

import (
	"github.com/esmtools/tes3db/internal/archive"
)

// sound maps SOUN records. The file path is required: a sound without a
// file is unplayable, and the NOT NULL surfaces such records as load
// failures instead of silent empty rows.
type sound struct{}

func (sound) Tag() string { return "SOUN" }

func (sound) Schema() TableSchema {
	return TableSchema{
		Name: "sounds",
		Columns: []Column{
			{Name: "file", Type: ColText, NotNull: true},
			{Name: "volume", Type: ColInteger},
			{Name: "range_min", Type: ColInteger},
			{Name: "range_max", Type: ColInteger},
		},
	}
}

func (sound) JoinSchemas() []JoinTableSchema { return nil }

func (sound) EntityRow(r *archive.Record) ([]any, error) {
	file, err := text(r, "file")
	if err != nil {
		return nil, err
	}
	volume, err := integer(r, "volume")
	if err != nil {
		return nil, err
	}
	rangeMin, err := integer(r, "range_min")
	if err != nil {
		return nil, err
	}
	rangeMax, err := integer(r, "range_max")
	if err != nil {
		return nil, err
	}
	return []any{file, volume, rangeMin, rangeMax}, nil
}

func (sound) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }

// static maps STAT records.
type static struct{}

func (static) Tag() string { return "STAT" }

func (static) Schema() TableSchema {
	return TableSchema{
		Name: "statics",
		Columns: []Column{
			{Name: "mesh", Type: ColText},
		},
	}
}

func (static) JoinSchemas() []JoinTableSchema { return nil }

func (static) EntityRow(r *archive.Record) ([]any, error) {
	mesh, err := text(r, "mesh")
	if err != nil {
		return nil, err
	}
	return []any{mesh}, nil
}

func (static) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }

// door maps DOOR records. Open and close sounds reference the sounds
// table at the entity level.
type door struct{}

func (door) Tag() string { return "DOOR" }

func (door) Schema() TableSchema {
	return TableSchema{
		Name: "doors",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "mesh", Type: ColText},
			{Name: "script", Type: ColText},
			{Name: "open_sound", Type: ColText},
			{Name: "close_sound", Type: ColText},
		},
		Refs: []ForeignKey{
			{Column: "open_sound", Table: "sounds", RefColumn: "key"},
			{Column: "close_sound", Table: "sounds", RefColumn: "key"},
		},
	}
}

func (door) JoinSchemas() []JoinTableSchema { return nil }

func (door) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	mesh, err := text(r, "mesh")
	if err != nil {
		return nil, err
	}
	script, err := text(r, "script")
	if err != nil {
		return nil, err
	}
	openSound, err := text(r, "open_sound")
	if err != nil {
		return nil, err
	}
	closeSound, err := text(r, "close_sound")
	if err != nil {
		return nil, err
	}
	return []any{name, mesh, script, openSound, closeSound}, nil
}

func (door) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }

// miscItem maps MISC records.
type miscItem struct{}

func (miscItem) Tag() string { return "MISC" }

func (miscItem) Schema() TableSchema {
	return TableSchema{
		Name: "misc_items",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "mesh", Type: ColText},
			{Name: "icon", Type: ColText},
			{Name: "weight", Type: ColReal},
			{Name: "value", Type: ColInteger},
		},
	}
}

func (miscItem) JoinSchemas() []JoinTableSchema { return nil }

func (miscItem) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	mesh, err := text(r, "mesh")
	if err != nil {
		return nil, err
	}
	icon, err := text(r, "icon")
	if err != nil {
		return nil, err
	}
	weight, err := real(r, "weight")
	if err != nil {
		return nil, err
	}
	value, err := integer(r, "value")
	if err != nil {
		return nil, err
	}
	return []any{name, mesh, icon, weight, value}, nil
}

func (miscItem) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }
