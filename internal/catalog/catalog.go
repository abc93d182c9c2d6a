package catalog

import (
	"fmt"

	"github.com/esmtools/tes3db/internal/archive"
)

// Column types understood by the store.
const (
	ColText    = "TEXT"
	ColInteger = "INTEGER"
	ColReal    = "REAL"
)

// HeaderTag is the archive header record type. The header is registered so
// its table exists in every export, but the loader never materializes
// header records.
const HeaderTag = "TES3"

// Column describes one declared column of an entity or join table.
type Column struct {
	Name    string
	Type    string
	NotNull bool
}

// ForeignKey is a typed reference constraint: Column in the owning table
// references Table(RefColumn).
type ForeignKey struct {
	Column    string
	Table     string
	RefColumn string
}

// TableSchema declares a type's entity table: the columns beyond the
// uniform key/mod/flags prelude, and reference constraints on them.
type TableSchema struct {
	Name    string
	Columns []Column
	Refs    []ForeignKey
}

// JoinTableSchema declares one multi-valued collection of a type. Parents
// link member rows back to the owning entity table; Refs constrain member
// value columns that reference other entity tables.
type JoinTableSchema struct {
	Name    string
	Columns []Column
	Refs    []ForeignKey
	Parents []ForeignKey
}

// JoinRow is one member row destined for a join table. Values align with
// the table's declared columns, owning record key first.
type JoinRow struct {
	Table  string
	Values []any
}

// Type is the capability contract a record type implements to take part in
// an export.
type Type interface {
	// Tag returns the four-character record type code, e.g. "NPC_".
	Tag() string

	// Schema declares the entity table.
	Schema() TableSchema

	// JoinSchemas declares the type's multi-valued collections, if any.
	JoinSchemas() []JoinTableSchema

	// EntityRow projects a record onto the declared entity columns, in
	// declaration order. Absent fields project to NULL.
	EntityRow(r *archive.Record) ([]any, error)

	// JoinRows projects a record's collections onto join rows, preserving
	// member order within each collection.
	JoinRows(r *archive.Record) ([]JoinRow, error)
}

// Catalog is an ordered registry of record types. Registration order is
// the catalog order: schema synthesis and the load passes follow it.
type Catalog struct {
	order []string
	types map[string]Type
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{types: make(map[string]Type)}
}

// Register adds a type to the catalog. Registering a tag twice is a
// programmer error and panics.
func (c *Catalog) Register(t Type) {
	tag := t.Tag()
	if _, dup := c.types[tag]; dup {
		panic(fmt.Sprintf("catalog: duplicate type %q", tag))
	}
	c.order = append(c.order, tag)
	c.types[tag] = t
}

// Tags returns the registered tags in catalog order.
func (c *Catalog) Tags() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Lookup returns the type registered for tag.
func (c *Catalog) Lookup(tag string) (Type, bool) {
	t, ok := c.types[tag]
	return t, ok
}

// Default returns the built-in TES3 catalog. Tags follow the record order
// of the game's master files.
func Default() *Catalog {
	c := New()
	c.Register(header{})
	c.Register(gameSetting{})
	c.Register(global{})
	c.Register(class{})
	c.Register(faction{})
	c.Register(sound{})
	c.Register(birthsign{})
	c.Register(spell{})
	c.Register(static{})
	c.Register(door{})
	c.Register(miscItem{})
	c.Register(npc{})
	return c
}
