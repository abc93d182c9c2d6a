package catalog

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/esmtools/tes3db/internal/archive"
)

// Projection helpers. Absent or null fields project to NULL so sparse
// records load cleanly; present-but-uncastable values are projection
// errors that fail the record.

func text(r *archive.Record, name string) (any, error) {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

func integer(r *archive.Record, name string) (any, error) {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return nil, nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return n, nil
}

func real(r *archive.Record, name string) (any, error) {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return nil, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return f, nil
}

// list extracts a multi-valued field. Absent fields are an empty
// collection, not an error.
func list(r *archive.Record, name string) ([]any, error) {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: not a list (%T)", name, v)
	}
	return items, nil
}

// member interprets one collection element as an object.
func member(field string, i int, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q[%d]: not an object (%T)", field, i, v)
	}
	return m, nil
}

func memberText(m map[string]any, name string) (any, error) {
	v, ok := m[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, fmt.Errorf("member %q: %w", name, err)
	}
	return s, nil
}

func memberInt(m map[string]any, name string) (any, error) {
	v, ok := m[name]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, fmt.Errorf("member %q: %w", name, err)
	}
	return n, nil
}
