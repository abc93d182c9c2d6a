package catalog

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/esmtools/tes3db/internal/archive"
)

// spell maps SPEL records. Effects are scalar-only members: magic effect
// ids are engine constants, not records, so nothing references out.
type spell struct{}

func (spell) Tag() string { return "SPEL" }

func (spell) Schema() TableSchema {
	return TableSchema{
		Name: "spells",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "spell_type", Type: ColInteger},
			{Name: "cost", Type: ColInteger},
			{Name: "spell_flags", Type: ColInteger},
		},
	}
}

func (spell) JoinSchemas() []JoinTableSchema {
	return []JoinTableSchema{
		{
			Name: "spell_effects",
			Columns: []Column{
				{Name: "spell", Type: ColText, NotNull: true},
				{Name: "effect_index", Type: ColInteger, NotNull: true},
				{Name: "magic_effect", Type: ColInteger},
				{Name: "effect_range", Type: ColInteger},
				{Name: "area", Type: ColInteger},
				{Name: "duration", Type: ColInteger},
				{Name: "magnitude_min", Type: ColInteger},
				{Name: "magnitude_max", Type: ColInteger},
			},
			Parents: []ForeignKey{
				{Column: "spell", Table: "spells", RefColumn: "key"},
			},
		},
	}
}

func (spell) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	spellType, err := integer(r, "spell_type")
	if err != nil {
		return nil, err
	}
	cost, err := integer(r, "cost")
	if err != nil {
		return nil, err
	}
	spellFlags, err := integer(r, "spell_flags")
	if err != nil {
		return nil, err
	}
	return []any{name, spellType, cost, spellFlags}, nil
}

func (spell) JoinRows(r *archive.Record) ([]JoinRow, error) {
	effects, err := list(r, "effects")
	if err != nil {
		return nil, err
	}

	var rows []JoinRow
	for i, v := range effects {
		m, err := member("effects", i, v)
		if err != nil {
			return nil, err
		}
		values := []any{r.Key, int64(i)}
		for _, name := range []string{"magic_effect", "range", "area", "duration", "magnitude_min", "magnitude_max"} {
			n, err := memberInt(m, name)
			if err != nil {
				return nil, fmt.Errorf("effects[%d]: %w", i, err)
			}
			values = append(values, n)
		}
		rows = append(rows, JoinRow{Table: "spell_effects", Values: values})
	}
	return rows, nil
}

// birthsign maps BSGN records. Granted spells reference the spells table.
type birthsign struct{}

func (birthsign) Tag() string { return "BSGN" }

func (birthsign) Schema() TableSchema {
	return TableSchema{
		Name: "birthsigns",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "texture", Type: ColText},
			{Name: "description", Type: ColText},
		},
	}
}

func (birthsign) JoinSchemas() []JoinTableSchema {
	return []JoinTableSchema{
		{
			Name: "birthsign_spells",
			Columns: []Column{
				{Name: "birthsign", Type: ColText, NotNull: true},
				{Name: "spell", Type: ColText, NotNull: true},
			},
			Refs: []ForeignKey{
				{Column: "spell", Table: "spells", RefColumn: "key"},
			},
			Parents: []ForeignKey{
				{Column: "birthsign", Table: "birthsigns", RefColumn: "key"},
			},
		},
	}
}

func (birthsign) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	texture, err := text(r, "texture")
	if err != nil {
		return nil, err
	}
	description, err := text(r, "description")
	if err != nil {
		return nil, err
	}
	return []any{name, texture, description}, nil
}

func (birthsign) JoinRows(r *archive.Record) ([]JoinRow, error) {
	spells, err := list(r, "spells")
	if err != nil {
		return nil, err
	}

	var rows []JoinRow
	for i, v := range spells {
		spellKey, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("spells[%d]: %w", i, err)
		}
		rows = append(rows, JoinRow{
			Table:  "birthsign_spells",
			Values: []any{r.Key, spellKey},
		})
	}
	return rows, nil
}
