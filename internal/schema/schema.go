// Package schema synthesizes the relational DDL for a catalog.
//
// The synthesizer owns the uniform shape of the store: every entity table
// opens with the key/mod/flags prelude, every table is tied back to the
// provenance table, and typed catalog constraints are rendered into
// FOREIGN KEY clauses. Per-type knowledge stays in the catalog; this
// package only renders it.
package schema

import (
	"fmt"
	"strings"

	"github.com/esmtools/tes3db/internal/catalog"
)

const (
	// ProvenanceTable records one row per loaded archive.
	ProvenanceTable = "plugins"
	// MetaTable holds export-session metadata as key/value pairs.
	MetaTable = "meta"
)

// Script renders the complete DDL for a catalog: the provenance and meta
// tables, every entity table in catalog order, then every join table in
// catalog order. Entity tables precede all join tables so member rows
// always have target tables in place. Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS), and the output is deterministic for a
// given catalog.
func Script(cat *catalog.Catalog) string {
	var b strings.Builder

	writeBlock(&b, ProvenanceTable, []string{
		"name TEXT PRIMARY KEY COLLATE NOCASE",
		"crc TEXT NOT NULL",
		"load_order INTEGER NOT NULL",
	})

	writeBlock(&b, MetaTable, []string{
		"key TEXT PRIMARY KEY",
		"value TEXT NOT NULL",
	})

	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		writeBlock(&b, typ.Schema().Name, entityLines(typ.Schema()))
	}

	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		for _, join := range typ.JoinSchemas() {
			writeBlock(&b, join.Name, joinLines(join))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// EntityColumns returns the insert column list for a type's entity table:
// the uniform prelude, then the declared columns in declaration order.
func EntityColumns(t catalog.Type) []string {
	cols := []string{"key", "mod", "flags"}
	for _, c := range t.Schema().Columns {
		cols = append(cols, c.Name)
	}
	return cols
}

// JoinColumns returns the insert column list for a join table: the uniform
// mod column, then the declared columns in declaration order.
func JoinColumns(j catalog.JoinTableSchema) []string {
	cols := []string{"mod"}
	for _, c := range j.Columns {
		cols = append(cols, c.Name)
	}
	return cols
}

// Insert builds the parameterized INSERT statement for a table.
func Insert(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
}

func entityLines(s catalog.TableSchema) []string {
	lines := []string{
		"key TEXT PRIMARY KEY COLLATE NOCASE",
		"mod TEXT NOT NULL",
		"flags INTEGER NOT NULL DEFAULT 0",
	}
	for _, c := range s.Columns {
		lines = append(lines, columnLine(c))
	}
	lines = append(lines, provenanceRef())
	for _, fk := range s.Refs {
		lines = append(lines, refLine(fk))
	}
	return lines
}

func joinLines(j catalog.JoinTableSchema) []string {
	lines := []string{"mod TEXT NOT NULL"}
	for _, c := range j.Columns {
		lines = append(lines, columnLine(c))
	}
	lines = append(lines, provenanceRef())
	for _, fk := range j.Refs {
		lines = append(lines, refLine(fk))
	}
	for _, fk := range j.Parents {
		lines = append(lines, refLine(fk))
	}
	return lines
}

func columnLine(c catalog.Column) string {
	line := c.Name + " " + c.Type
	if c.NotNull {
		line += " NOT NULL"
	}
	return line
}

func refLine(fk catalog.ForeignKey) string {
	return fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s)", fk.Column, fk.Table, fk.RefColumn)
}

func provenanceRef() string {
	return fmt.Sprintf("FOREIGN KEY(mod) REFERENCES %s(name)", ProvenanceTable)
}

func writeBlock(b *strings.Builder, name string, lines []string) {
	fmt.Fprintf(b, "CREATE TABLE IF NOT EXISTS %s (\n", name)
	for i, line := range lines {
		b.WriteString("    ")
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n\n")
}
