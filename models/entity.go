package models

import (
	"errors"
	"fmt"
	"time"
)

// FieldType is the declared wire/storage type of an entity field.
type FieldType string

// Supported field types. The set is deliberately small: every value an
// entity can carry must round-trip through JSON and both SQL backends.
const (
	Integer   FieldType = "integer"
	Float     FieldType = "float"
	Text      FieldType = "text"
	Boolean   FieldType = "boolean"
	Timestamp FieldType = "timestamp"
)

// Field describes one declared column of an entity.
type Field struct {
	Name string
	Type FieldType
}

// Entity is the static descriptor of a registered data model: its resource
// name (used as both table name and URL segment), its primary-key column and
// its declared fields. An Entity is immutable once registered and is shared
// read-only between all requests.
//
// The primary key is server-assigned and is not part of Fields.
type Entity struct {
	Name       string
	PrimaryKey string
	Fields     []Field
}

// Sentinel errors returned by [Entity.Validate].
var (
	ErrEntityNameEmpty   = errors.New("entity name is empty")
	ErrEntityNoFields    = errors.New("entity declares no fields")
	ErrDuplicateField    = errors.New("duplicate field name")
	ErrUnknownFieldType  = errors.New("unknown field type")
	ErrReservedFieldName = errors.New("field name collides with the primary key")
)

// NewEntity builds a descriptor with the conventional "id" primary key.
func NewEntity(name string, fields ...Field) Entity {
	return Entity{Name: name, PrimaryKey: "id", Fields: fields}
}

// Validate checks the descriptor for structural problems. It is called once
// at registration time so that a broken model never reaches the request path.
func (e Entity) Validate() error {
	if e.Name == "" {
		return ErrEntityNameEmpty
	}
	if len(e.Fields) == 0 {
		return fmt.Errorf("entity %q: %w", e.Name, ErrEntityNoFields)
	}

	seen := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		if f.Name == e.PrimaryKey {
			return fmt.Errorf("entity %q, field %q: %w", e.Name, f.Name, ErrReservedFieldName)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("entity %q, field %q: %w", e.Name, f.Name, ErrDuplicateField)
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case Integer, Float, Text, Boolean, Timestamp:
		default:
			return fmt.Errorf("entity %q, field %q: %w: %q", e.Name, f.Name, ErrUnknownFieldType, f.Type)
		}
	}

	return nil
}

// Columns returns the declared field names in declaration order,
// without the primary key.
func (e Entity) Columns() []string {
	cols := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		cols = append(cols, f.Name)
	}
	return cols
}

// FieldByName returns the declared field with the given name.
func (e Entity) FieldByName(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Filter returns a copy of payload reduced to the declared fields of the
// entity. Unknown keys are silently dropped: update semantics are permissive
// so that one generic handler set serves arbitrary entity shapes. The primary
// key is never taken from a payload; it is assigned by the store.
func (e Entity) Filter(payload Record) Record {
	out := make(Record, len(e.Fields))
	for _, f := range e.Fields {
		if v, ok := payload[f.Name]; ok {
			out[f.Name] = coerce(f.Type, v)
		}
	}
	return out
}

// Record is a single entity instance in wire form: one value per declared
// field, plus the primary key once the store has assigned it. A Record is
// owned by the request that produced it and is never shared.
type Record map[string]any

// Normalize rewrites driver-native values into their declared wire types so
// that a Record marshals to the same JSON regardless of backend (SQLite
// reports booleans as int64, text as []byte, and so on).
func (e Entity) Normalize(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		if k == e.PrimaryKey {
			out[k] = coerce(Integer, v)
			continue
		}
		f, ok := e.FieldByName(k)
		if !ok {
			continue
		}
		out[k] = coerce(f.Type, v)
	}
	return out
}

// coerce converts v to the canonical Go representation of t. Unconvertible
// values pass through untouched and surface as-is in the JSON body.
func coerce(t FieldType, v any) any {
	if v == nil {
		return nil
	}

	switch t {
	case Integer:
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case float64:
			return int64(n)
		}
	case Float:
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		}
	case Text:
		switch s := v.(type) {
		case string:
			return s
		case []byte:
			return string(s)
		}
	case Boolean:
		switch b := v.(type) {
		case bool:
			return b
		case int64:
			return b != 0
		case float64:
			return b != 0
		}
	case Timestamp:
		switch ts := v.(type) {
		case time.Time:
			return ts
		case string:
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				return parsed
			}
			return ts
		}
	}

	return v
}
