// Package snapshot defines the durable image of a store's property mapping.
//
// A snapshot is always a full replacement image: {"schemaVersion": N, "entries": {...}}.
// Only an object with exactly those two keys is read as a header. Anything else is a
// blob written before the schema existed, a plain {key: value} object read as version 0,
// so a property may itself be named schemaVersion.
//
// Values come back in their document form, not their original Go type. The json codec
// yields int64 for integers, float64 for other numbers, []any for slices and
// map[string]any for structs and maps. The proto codec yields float64 for every number.
package snapshot

import (
	"fmt"
	"github.com/pkg/errors"
)

// Key is the fixed record name the snapshot is stored under in a session backend.
const Key = "StorageBox"

const (
	LegacyVersion  = 0
	CurrentVersion = 1
)

const (
	versionField = "schemaVersion"
	entriesField = "entries"
)

var (
	ErrUnsupportedSchema = fmt.Errorf("unsupported snapshot schema version")
	ErrMalformed         = fmt.Errorf("malformed snapshot")
)

type Snapshot struct {
	SchemaVersion int
	Entries       map[string]any
}

// New builds a current-version snapshot, entries is copied.
func New(entries map[string]any) *Snapshot {
	copied := make(map[string]any, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &Snapshot{SchemaVersion: CurrentVersion, Entries: copied}
}

func (s *Snapshot) Lookup(key string) (any, bool) {
	v, ok := s.Entries[key]
	return v, ok
}

func (s *Snapshot) toMap() map[string]any {
	entries := s.Entries
	if entries == nil {
		entries = map[string]any{}
	}
	return map[string]any{
		versionField: CurrentVersion,
		entriesField: entries,
	}
}

// fromMap interprets an already decoded document, shared by all codecs.
func fromMap(raw map[string]any) (*Snapshot, error) {
	if raw == nil {
		return &Snapshot{SchemaVersion: LegacyVersion, Entries: map[string]any{}}, nil
	}
	if !isHeader(raw) {
		return &Snapshot{SchemaVersion: LegacyVersion, Entries: raw}, nil
	}
	version, ok := integer(raw[versionField])
	if !ok {
		return nil, errors.WithMessagef(ErrMalformed, "schemaVersion %v is not an integer", raw[versionField])
	}
	if version > CurrentVersion || version < LegacyVersion {
		return nil, errors.WithMessagef(ErrUnsupportedSchema, "got %d, support up to %d", version, CurrentVersion)
	}
	entries := map[string]any{}
	if entriesV, ok := raw[entriesField]; ok && entriesV != nil {
		if entries, ok = entriesV.(map[string]any); !ok {
			return nil, errors.WithMessagef(ErrMalformed, "entries is %T, not an object", entriesV)
		}
	}
	return &Snapshot{SchemaVersion: version, Entries: entries}, nil
}

func isHeader(raw map[string]any) bool {
	_, versioned := raw[versionField]
	_, hasEntries := raw[entriesField]
	return versioned && hasEntries && len(raw) == 2
}

// integer accepts the number types codecs decode into, as long as the value is whole.
func integer(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}

// Codec turns a snapshot into the blob handed to a session backend and back.
type Codec interface {
	Name() string
	Encode(*Snapshot) ([]byte, error)
	Decode([]byte) (*Snapshot, error)
}

// ParseCodec resolves a codec by name, "" means json.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON(), nil
	case "proto":
		return Proto(), nil
	default:
		return nil, errors.Errorf("unknown snapshot codec %q", name)
	}
}
