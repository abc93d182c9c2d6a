// Package archive defines the record model for TES3 plugin data and the
// parser contract that turns plugin files into ordered record collections.
//
// An Archive is an ordered list of typed records as they appear in a plugin
// file. Record identity is the (tag, key) pair; keys are NFC-normalized at
// construction so downstream case-insensitive matching is not defeated by
// Unicode composition differences.
//
// The package deliberately does NOT parse the raw binary .esp/.esm format.
// Binary plugins are detected and rejected with a pointer to conversion
// tooling (tes3conv). The supported input is the JSON plugin representation:
// a top-level array of record objects, each carrying "type", "id", optional
// "flags", and the remaining keys as the record's field set.
//
// Discovery resolves a file-or-directory input into an ordered load list:
// directories are enumerated non-recursively, filtered by the parser's
// extensions, and sorted by modification time ascending, so the oldest
// archive gets the lowest load order.
package archive
