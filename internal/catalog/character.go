package catalog

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/esmtools/tes3db/internal/archive"
)

// class maps CLAS records.
type class struct{}

func (class) Tag() string { return "CLAS" }

func (class) Schema() TableSchema {
	return TableSchema{
		Name: "classes",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "description", Type: ColText},
			{Name: "specialization", Type: ColInteger},
			{Name: "playable", Type: ColInteger},
		},
	}
}

func (class) JoinSchemas() []JoinTableSchema { return nil }

func (class) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	description, err := text(r, "description")
	if err != nil {
		return nil, err
	}
	specialization, err := integer(r, "specialization")
	if err != nil {
		return nil, err
	}
	playable, err := integer(r, "playable")
	if err != nil {
		return nil, err
	}
	return []any{name, description, specialization, playable}, nil
}

func (class) JoinRows(*archive.Record) ([]JoinRow, error) { return nil, nil }

// faction maps FACT records. Ranks and inter-faction reactions are
// collections; a reaction's target is itself a faction, so the reactions
// table references back into factions.
type faction struct{}

func (faction) Tag() string { return "FACT" }

func (faction) Schema() TableSchema {
	return TableSchema{
		Name: "factions",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "hidden", Type: ColInteger},
		},
	}
}

func (faction) JoinSchemas() []JoinTableSchema {
	return []JoinTableSchema{
		{
			Name: "faction_ranks",
			Columns: []Column{
				{Name: "faction", Type: ColText, NotNull: true},
				{Name: "rank_index", Type: ColInteger, NotNull: true},
				{Name: "name", Type: ColText},
			},
			Parents: []ForeignKey{
				{Column: "faction", Table: "factions", RefColumn: "key"},
			},
		},
		{
			Name: "faction_reactions",
			Columns: []Column{
				{Name: "faction", Type: ColText, NotNull: true},
				{Name: "target", Type: ColText, NotNull: true},
				{Name: "reaction", Type: ColInteger},
			},
			Refs: []ForeignKey{
				{Column: "target", Table: "factions", RefColumn: "key"},
			},
			Parents: []ForeignKey{
				{Column: "faction", Table: "factions", RefColumn: "key"},
			},
		},
	}
}

func (faction) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	hidden, err := integer(r, "hidden")
	if err != nil {
		return nil, err
	}
	return []any{name, hidden}, nil
}

func (faction) JoinRows(r *archive.Record) ([]JoinRow, error) {
	var rows []JoinRow

	ranks, err := list(r, "rank_names")
	if err != nil {
		return nil, err
	}
	for i, v := range ranks {
		name, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("rank_names[%d]: %w", i, err)
		}
		rows = append(rows, JoinRow{
			Table:  "faction_ranks",
			Values: []any{r.Key, int64(i), name},
		})
	}

	reactions, err := list(r, "reactions")
	if err != nil {
		return nil, err
	}
	for i, v := range reactions {
		m, err := member("reactions", i, v)
		if err != nil {
			return nil, err
		}
		target, err := memberText(m, "faction")
		if err != nil {
			return nil, fmt.Errorf("reactions[%d]: %w", i, err)
		}
		reaction, err := memberInt(m, "reaction")
		if err != nil {
			return nil, fmt.Errorf("reactions[%d]: %w", i, err)
		}
		rows = append(rows, JoinRow{
			Table:  "faction_reactions",
			Values: []any{r.Key, target, reaction},
		})
	}

	return rows, nil
}

// npc maps NPC_ records. Class and faction reference their entity tables;
// race stays unconstrained because RACE is not registered. Inventory items
// span weapons, armor, books and other unregistered types, so the item
// column is deliberately unconstrained too.
type npc struct{}

func (npc) Tag() string { return "NPC_" }

func (npc) Schema() TableSchema {
	return TableSchema{
		Name: "npcs",
		Columns: []Column{
			{Name: "name", Type: ColText},
			{Name: "class", Type: ColText},
			{Name: "faction", Type: ColText},
			{Name: "race", Type: ColText},
			{Name: "level", Type: ColInteger},
			{Name: "disposition", Type: ColInteger},
			{Name: "gold", Type: ColInteger},
		},
		Refs: []ForeignKey{
			{Column: "class", Table: "classes", RefColumn: "key"},
			{Column: "faction", Table: "factions", RefColumn: "key"},
		},
	}
}

func (npc) JoinSchemas() []JoinTableSchema {
	return []JoinTableSchema{
		{
			Name: "npc_inventory",
			Columns: []Column{
				{Name: "npc", Type: ColText, NotNull: true},
				{Name: "item", Type: ColText, NotNull: true},
				{Name: "count", Type: ColInteger, NotNull: true},
			},
			Parents: []ForeignKey{
				{Column: "npc", Table: "npcs", RefColumn: "key"},
			},
		},
		{
			Name: "npc_spells",
			Columns: []Column{
				{Name: "npc", Type: ColText, NotNull: true},
				{Name: "spell", Type: ColText, NotNull: true},
			},
			Refs: []ForeignKey{
				{Column: "spell", Table: "spells", RefColumn: "key"},
			},
			Parents: []ForeignKey{
				{Column: "npc", Table: "npcs", RefColumn: "key"},
			},
		},
	}
}

func (npc) EntityRow(r *archive.Record) ([]any, error) {
	name, err := text(r, "name")
	if err != nil {
		return nil, err
	}
	className, err := text(r, "class")
	if err != nil {
		return nil, err
	}
	factionName, err := text(r, "faction")
	if err != nil {
		return nil, err
	}
	race, err := text(r, "race")
	if err != nil {
		return nil, err
	}
	level, err := integer(r, "level")
	if err != nil {
		return nil, err
	}
	disposition, err := integer(r, "disposition")
	if err != nil {
		return nil, err
	}
	gold, err := integer(r, "gold")
	if err != nil {
		return nil, err
	}
	return []any{name, className, factionName, race, level, disposition, gold}, nil
}

func (npc) JoinRows(r *archive.Record) ([]JoinRow, error) {
	var rows []JoinRow

	inventory, err := list(r, "inventory")
	if err != nil {
		return nil, err
	}
	for i, v := range inventory {
		m, err := member("inventory", i, v)
		if err != nil {
			return nil, err
		}
		item, err := memberText(m, "item")
		if err != nil {
			return nil, fmt.Errorf("inventory[%d]: %w", i, err)
		}
		count, err := memberInt(m, "count")
		if err != nil {
			return nil, fmt.Errorf("inventory[%d]: %w", i, err)
		}
		rows = append(rows, JoinRow{
			Table:  "npc_inventory",
			Values: []any{r.Key, item, count},
		})
	}

	spells, err := list(r, "spells")
	if err != nil {
		return nil, err
	}
	for i, v := range spells {
		spellKey, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("spells[%d]: %w", i, err)
		}
		rows = append(rows, JoinRow{
			Table:  "npc_spells",
			Values: []any{r.Key, spellKey},
		})
	}

	return rows, nil
}
