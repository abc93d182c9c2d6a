package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrBinaryPlugin reports a raw binary .esp/.esm plugin. Binary parsing is
// out of scope; plugins must be converted to JSON (tes3conv) first.
var ErrBinaryPlugin = errors.New("binary plugin format not supported, convert to JSON with tes3conv first")

// Parser turns a plugin file on disk into an Archive.
type Parser interface {
	// Extensions lists the file extensions the parser accepts,
	// lowercase with leading dot.
	Extensions() []string

	// Parse reads and decodes the archive at path. A failed parse is an
	// archive-level condition: callers skip the archive and continue.
	Parse(path string) (*Archive, error)
}

// JSONParser decodes tes3conv-style JSON plugins: a top-level array of
// record objects, each with "type" (record tag), "id" (record key),
// optional "flags" (number or list of flag names), and the remaining keys
// as the record's field set.
type JSONParser struct{}

// Extensions implements Parser.
func (p *JSONParser) Extensions() []string {
	return []string{".json"}
}

// Parse implements Parser. Record objects missing "type" or "id" are
// dropped and counted; the rest of the archive stays usable.
func (p *JSONParser) Parse(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	name := filepath.Base(path)

	// Binary TES3 plugins open with the literal header tag bytes.
	if len(data) > 0 && data[0] == 'T' {
		return nil, fmt.Errorf("%s: %w", name, ErrBinaryPlugin)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	arc := &Archive{Name: name}
	for _, obj := range raw {
		tag, _ := obj["type"].(string)
		key, _ := obj["id"].(string)
		if tag == "" || key == "" {
			arc.Dropped++
			continue
		}

		flags := decodeFlags(obj["flags"])

		fields := make(map[string]any, len(obj))
		for k, v := range obj {
			switch k {
			case "type", "id", "flags":
			default:
				fields[k] = v
			}
		}

		arc.Records = append(arc.Records, NewRecord(tag, key, flags, fields))
	}

	return arc, nil
}

// decodeFlags accepts the two JSON flag encodings: a plain number, or a
// list of flag names. Unknown names are ignored.
func decodeFlags(v any) uint32 {
	switch val := v.(type) {
	case float64:
		return uint32(val)
	case []any:
		var flags uint32
		for _, name := range val {
			s, ok := name.(string)
			if !ok {
				continue
			}
			switch strings.ToUpper(s) {
			case "MODIFIED":
				flags |= FlagModified
			case "DELETED":
				flags |= FlagDeleted
			case "PERSISTENT":
				flags |= FlagPersistent
			case "IGNORED":
				flags |= FlagIgnored
			case "BLOCKED":
				flags |= FlagBlocked
			}
		}
		return flags
	default:
		return 0
	}
}
