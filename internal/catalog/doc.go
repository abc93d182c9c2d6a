// Package catalog is the registry of record types the exporter understands.
//
// Each record type contributes structured metadata and projection behavior
// through the Type interface:
//
//   - Schema: the entity table (name, declared columns, reference
//     constraints) beyond the uniform key/mod/flags prelude every entity
//     table carries
//   - JoinSchemas: one join table per multi-valued collection (ranks,
//     effects, inventory, ...), with value references and parent links
//   - EntityRow / JoinRows: projection from a decoded record onto rows
//
// Constraints are typed values: a ForeignKey names its target table and
// column as fields. Nothing downstream parses constraint strings.
//
// Dispatch is a static registry keyed by record tag, populated at
// construction. Default() returns the built-in TES3 catalog; the registry
// order is the catalog order that schema synthesis and the load passes
// follow. Whether a collection member references another entity table
// (birthsign spells), carries plain scalars (spell effects), or stays
// deliberately unconstrained (inventory items, whose targets span many
// unregistered types) is decided here, per type - the exporter core stays
// free of per-type knowledge.
package catalog
