package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/esmtools/tes3db/internal/store"
)

// Report summarizes one export run.
type Report struct {
	Output     string            `yaml:"output"`
	RunID      string            `yaml:"run_id"`
	Archives   []ArchiveStats    `yaml:"archives"`
	Skipped    []SkippedArchive  `yaml:"skipped,omitempty"`
	Failures   []Failure         `yaml:"failures,omitempty"`
	Violations []store.Violation `yaml:"dangling_references,omitempty"`
}

// ArchiveStats counts what one archive contributed.
type ArchiveStats struct {
	Name       string `yaml:"name"`
	CRC        string `yaml:"crc"`
	LoadOrder  int    `yaml:"load_order"`
	Records    int    `yaml:"records"`
	EntityRows int    `yaml:"entity_rows"`
	JoinRows   int    `yaml:"join_rows"`
	Unknown    int    `yaml:"unknown_tags,omitempty"`
	Dropped    int    `yaml:"dropped,omitempty"`
	Failures   int    `yaml:"failures,omitempty"`
}

// SkippedArchive names an archive that could not be parsed at all.
type SkippedArchive struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
}

// Failure records one record that was lost during loading.
type Failure struct {
	Archive string `yaml:"archive"`
	Table   string `yaml:"table"`
	Key     string `yaml:"key"`
	Reason  string `yaml:"reason"`
}

// TotalEntityRows sums entity rows across all loaded archives.
func (r *Report) TotalEntityRows() int {
	n := 0
	for _, a := range r.Archives {
		n += a.EntityRows
	}
	return n
}

// TotalJoinRows sums join rows across all loaded archives.
func (r *Report) TotalJoinRows() int {
	n := 0
	for _, a := range r.Archives {
		n += a.JoinRows
	}
	return n
}

// TotalRecords sums parsed records across all loaded archives.
func (r *Report) TotalRecords() int {
	n := 0
	for _, a := range r.Archives {
		n += a.Records
	}
	return n
}

// WriteYAML renders the report for operators and scripts.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish report: %w", err)
	}
	return nil
}
