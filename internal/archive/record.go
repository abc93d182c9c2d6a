package archive

import (
	"golang.org/x/text/unicode/norm"
)

// Record flag bits, matching the on-disk TES3 object flags.
const (
	FlagModified   uint32 = 0x0002
	FlagDeleted    uint32 = 0x0020
	FlagPersistent uint32 = 0x0400
	FlagIgnored    uint32 = 0x1000
	FlagBlocked    uint32 = 0x2000
)

// Record is a single typed game-data record from a plugin archive.
// Identity within an archive is the (Tag, Key) pair.
type Record struct {
	// Tag is the four-character record type code, e.g. "NPC_" or "GMST".
	Tag string
	// Key is the record identifier. Normalized to NFC at construction.
	Key string
	// Flags holds the record's object flag bits.
	Flags uint32

	fields map[string]any
}

// NewRecord builds a record with the given field set. The key is
// NFC-normalized here, at the model boundary, so every consumer sees the
// canonical form.
func NewRecord(tag, key string, flags uint32, fields map[string]any) *Record {
	return &Record{
		Tag:    tag,
		Key:    norm.NFC.String(key),
		Flags:  flags,
		fields: fields,
	}
}

// Field returns the named field value and whether it is present.
// Values carry the loose types produced by JSON decoding (string, float64,
// bool, []any, map[string]any).
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Deleted reports whether the record carries the deleted flag.
func (r *Record) Deleted() bool {
	return r.Flags&FlagDeleted != 0
}

// Archive is an ordered collection of records from one plugin file.
type Archive struct {
	// Name is the base file name of the plugin, e.g. "Morrowind.json".
	Name string
	// Records preserves the order records appear in the plugin.
	Records []*Record
	// Dropped counts malformed entries discarded during decoding.
	Dropped int
}
