// Package archivetest provides an in-memory archive parser for tests.
//
// The fake parser stands in for the external plugin-conversion boundary:
// loader tests register archives (and forced errors) by path and exercise
// the full load pipeline without touching plugin files on disk.
package archivetest

import (
	"fmt"

	"github.com/esmtools/tes3db/internal/archive"
)

// Parser is an in-memory archive.Parser. Archives and errors are looked up
// by the exact path given to Parse.
type Parser struct {
	archives map[string]*archive.Archive
	errs     map[string]error
	exts     []string
}

// NewParser creates an empty fake parser accepting ".json" paths.
func NewParser() *Parser {
	return &Parser{
		archives: make(map[string]*archive.Archive),
		errs:     make(map[string]error),
		exts:     []string{".json"},
	}
}

// Add registers an archive under the given path.
func (p *Parser) Add(path string, arc *archive.Archive) {
	p.archives[path] = arc
}

// Fail makes Parse return err for the given path.
func (p *Parser) Fail(path string, err error) {
	p.errs[path] = err
}

// Extensions implements archive.Parser.
func (p *Parser) Extensions() []string {
	return p.exts
}

// Parse implements archive.Parser. Unregistered paths are an error, so a
// test that forgets to register an archive fails loudly.
func (p *Parser) Parse(path string) (*archive.Archive, error) {
	if err, ok := p.errs[path]; ok {
		return nil, err
	}
	arc, ok := p.archives[path]
	if !ok {
		return nil, fmt.Errorf("archivetest: no archive registered for %s", path)
	}
	return arc, nil
}

// Rec builds a record with zero flags, for fixture brevity.
func Rec(tag, key string, fields map[string]any) *archive.Record {
	return archive.NewRecord(tag, key, 0, fields)
}
