package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CatalogOrder(t *testing.T) {
	want := []string{
		"TES3", "GMST", "GLOB", "CLAS", "FACT", "SOUN",
		"BSGN", "SPEL", "STAT", "DOOR", "MISC", "NPC_",
	}
	assert.Equal(t, want, Default().Tags())
}

func TestDefault_Lookup(t *testing.T) {
	cat := Default()

	typ, ok := cat.Lookup("NPC_")
	require.True(t, ok)
	assert.Equal(t, "npcs", typ.Schema().Name)

	_, ok = cat.Lookup("LAND")
	assert.False(t, ok)
}

func TestRegister_DuplicateTagPanics(t *testing.T) {
	c := New()
	c.Register(npc{})
	assert.Panics(t, func() { c.Register(npc{}) })
}

func TestTags_ReturnsCopy(t *testing.T) {
	cat := Default()
	tags := cat.Tags()
	tags[0] = "XXXX"
	assert.Equal(t, "TES3", cat.Tags()[0])
}

// The conventions below are what the schema synthesizer and loader rely
// on; a new type that breaks one fails here instead of producing a
// malformed artifact.

func TestDefault_TableNamesUnique(t *testing.T) {
	cat := Default()
	seen := map[string]string{}
	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		names := []string{typ.Schema().Name}
		for _, j := range typ.JoinSchemas() {
			names = append(names, j.Name)
		}
		for _, name := range names {
			if prev, dup := seen[name]; dup {
				t.Errorf("table %q declared by both %s and %s", name, prev, tag)
			}
			seen[name] = tag
		}
	}
}

func TestDefault_DeclaredColumnsAvoidUniformNames(t *testing.T) {
	cat := Default()
	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)

		for _, col := range typ.Schema().Columns {
			assert.NotContains(t, []string{"key", "mod", "flags"}, col.Name,
				"%s entity column %q collides with a uniform column", tag, col.Name)
		}
		for _, j := range typ.JoinSchemas() {
			for _, col := range j.Columns {
				assert.NotEqual(t, "mod", col.Name,
					"%s join table %s column collides with the uniform mod column", tag, j.Name)
			}
		}
	}
}

func TestDefault_ColumnTypesValid(t *testing.T) {
	valid := map[string]bool{ColText: true, ColInteger: true, ColReal: true}

	cat := Default()
	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		for _, col := range typ.Schema().Columns {
			assert.True(t, valid[col.Type], "%s.%s has type %q", typ.Schema().Name, col.Name, col.Type)
		}
		for _, j := range typ.JoinSchemas() {
			for _, col := range j.Columns {
				assert.True(t, valid[col.Type], "%s.%s has type %q", j.Name, col.Name, col.Type)
			}
		}
	}
}

func TestDefault_ConstraintsTargetRegisteredTables(t *testing.T) {
	cat := Default()

	entityTables := map[string]bool{}
	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		entityTables[typ.Schema().Name] = true
	}

	columnSet := func(cols []Column) map[string]bool {
		set := map[string]bool{}
		for _, c := range cols {
			set[c.Name] = true
		}
		return set
	}

	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		entity := typ.Schema()

		cols := columnSet(entity.Columns)
		for _, fk := range entity.Refs {
			assert.True(t, cols[fk.Column], "%s ref column %q not declared", tag, fk.Column)
			assert.True(t, entityTables[fk.Table], "%s references unknown table %q", tag, fk.Table)
			assert.Equal(t, "key", fk.RefColumn)
		}

		for _, j := range typ.JoinSchemas() {
			jcols := columnSet(j.Columns)
			for _, fk := range j.Refs {
				assert.True(t, jcols[fk.Column], "%s ref column %q not declared", j.Name, fk.Column)
				assert.True(t, entityTables[fk.Table], "%s references unknown table %q", j.Name, fk.Table)
				assert.Equal(t, "key", fk.RefColumn)
			}
			// Parent links always point at the owning entity's key.
			require.NotEmpty(t, j.Parents, "join table %s has no parent link", j.Name)
			for _, fk := range j.Parents {
				assert.True(t, jcols[fk.Column], "%s parent column %q not declared", j.Name, fk.Column)
				assert.Equal(t, entity.Name, fk.Table, "%s parent must target %s", j.Name, entity.Name)
				assert.Equal(t, "key", fk.RefColumn)
			}
		}
	}
}
