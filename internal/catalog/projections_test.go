package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esmtools/tes3db/internal/archive"
)

func rec(tag, key string, fields map[string]any) *archive.Record {
	return archive.NewRecord(tag, key, 0, fields)
}

func TestEntityRow(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		fields map[string]any
		want   []any
	}{
		{
			name:   "game setting string value",
			tag:    "GMST",
			fields: map[string]any{"value": "Yes"},
			want:   []any{"Yes"},
		},
		{
			name:   "game setting numeric value casts to text",
			tag:    "GMST",
			fields: map[string]any{"value": float64(192)},
			want:   []any{"192"},
		},
		{
			name:   "global",
			tag:    "GLOB",
			fields: map[string]any{"value": float64(1.5)},
			want:   []any{1.5},
		},
		{
			name:   "sparse record projects absent fields to null",
			tag:    "MISC",
			fields: map[string]any{"name": "Ring of Keley"},
			want:   []any{"Ring of Keley", nil, nil, nil, nil},
		},
		{
			name: "door with sound references",
			tag:  "DOOR",
			fields: map[string]any{
				"name":        "Wooden Door",
				"mesh":        `d\door_wood.nif`,
				"open_sound":  "Door Open",
				"close_sound": "Door Close",
			},
			want: []any{"Wooden Door", `d\door_wood.nif`, nil, "Door Open", "Door Close"},
		},
		{
			name: "npc",
			tag:  "NPC_",
			fields: map[string]any{
				"name":        "Fargoth",
				"class":       "commoner",
				"faction":     "",
				"race":        "wood elf",
				"level":       float64(3),
				"disposition": float64(70),
				"gold":        float64(0),
			},
			want: []any{"Fargoth", "commoner", "", "wood elf", int64(3), int64(70), int64(0)},
		},
	}

	cat := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := cat.Lookup(tt.tag)
			require.True(t, ok)

			got, err := typ.EntityRow(rec(tt.tag, "test_key", tt.fields))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Projection arity always matches the declared columns.
			assert.Len(t, got, len(typ.Schema().Columns))
		})
	}
}

func TestEntityRow_MalformedFieldFails(t *testing.T) {
	cat := Default()

	npcType, _ := cat.Lookup("NPC_")
	_, err := npcType.EntityRow(rec("NPC_", "x", map[string]any{"level": "high"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"level"`)

	miscType, _ := cat.Lookup("MISC")
	_, err = miscType.EntityRow(rec("MISC", "x", map[string]any{"weight": []any{1}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"weight"`)
}

func TestJoinRows_Faction(t *testing.T) {
	typ, _ := Default().Lookup("FACT")

	r := rec("FACT", "mages guild", map[string]any{
		"name":       "Mages Guild",
		"rank_names": []any{"Associate", "Apprentice", "Journeyman"},
		"reactions": []any{
			map[string]any{"faction": "fighters guild", "reaction": float64(-1)},
		},
	})

	rows, err := typ.JoinRows(r)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Member order preserved, owning key first, zero-based index.
	assert.Equal(t, JoinRow{Table: "faction_ranks", Values: []any{"mages guild", int64(0), "Associate"}}, rows[0])
	assert.Equal(t, JoinRow{Table: "faction_ranks", Values: []any{"mages guild", int64(1), "Apprentice"}}, rows[1])
	assert.Equal(t, JoinRow{Table: "faction_ranks", Values: []any{"mages guild", int64(2), "Journeyman"}}, rows[2])
	assert.Equal(t, JoinRow{Table: "faction_reactions", Values: []any{"mages guild", "fighters guild", int64(-1)}}, rows[3])
}

func TestJoinRows_SpellEffects(t *testing.T) {
	typ, _ := Default().Lookup("SPEL")

	r := rec("SPEL", "flame_touch", map[string]any{
		"effects": []any{
			map[string]any{
				"magic_effect": float64(14), "range": float64(0), "area": float64(0),
				"duration": float64(1), "magnitude_min": float64(5), "magnitude_max": float64(15),
			},
			map[string]any{"magic_effect": float64(57)},
		},
	})

	rows, err := typ.JoinRows(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, JoinRow{
		Table:  "spell_effects",
		Values: []any{"flame_touch", int64(0), int64(14), int64(0), int64(0), int64(1), int64(5), int64(15)},
	}, rows[0])

	// Sparse members project absent scalars to NULL.
	assert.Equal(t, JoinRow{
		Table:  "spell_effects",
		Values: []any{"flame_touch", int64(1), int64(57), nil, nil, nil, nil, nil},
	}, rows[1])
}

func TestJoinRows_NPC(t *testing.T) {
	typ, _ := Default().Lookup("NPC_")

	r := rec("NPC_", "fargoth", map[string]any{
		"inventory": []any{
			map[string]any{"item": "gold_001", "count": float64(35)},
			map[string]any{"item": "ring_keley", "count": float64(1)},
		},
		"spells": []any{"fire bite"},
	})

	rows, err := typ.JoinRows(r)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, JoinRow{Table: "npc_inventory", Values: []any{"fargoth", "gold_001", int64(35)}}, rows[0])
	assert.Equal(t, JoinRow{Table: "npc_inventory", Values: []any{"fargoth", "ring_keley", int64(1)}}, rows[1])
	assert.Equal(t, JoinRow{Table: "npc_spells", Values: []any{"fargoth", "fire bite"}}, rows[2])
}

func TestJoinRows_AbsentCollections(t *testing.T) {
	cat := Default()
	for _, tag := range []string{"FACT", "SPEL", "BSGN", "NPC_"} {
		typ, _ := cat.Lookup(tag)
		rows, err := typ.JoinRows(rec(tag, "bare", nil))
		require.NoError(t, err, tag)
		assert.Empty(t, rows, tag)
	}
}

func TestJoinRows_MalformedMemberFails(t *testing.T) {
	typ, _ := Default().Lookup("NPC_")

	// A scalar where an object member is expected.
	_, err := typ.JoinRows(rec("NPC_", "x", map[string]any{
		"inventory": []any{"gold_001"},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory")

	// A scalar collection that is not a list at all.
	_, err = typ.JoinRows(rec("NPC_", "x", map[string]any{
		"spells": "fire bite",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"spells"`)
}
