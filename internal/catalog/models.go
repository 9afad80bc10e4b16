package catalog

import (
	"bytes"
	"encoding/json"
)

const (
	IDColumn     = "MAL_ID"
	GenresColumn = "Genres"
)

// ColumnKind is the value type chosen for a column when the table is loaded.
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindInt
	KindFloat
)

// Field is a single typed cell. Value is int64, float64, string or nil for an empty cell.
type Field struct {
	Name  string
	Value any
}

// Item is one dataset row.
type Item struct {
	ID     int
	Genres string
	Fields []Field
}

// Value returns the value of the named column.
func (i Item) Value(name string) (any, bool) {
	for _, f := range i.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Record returns the row as an unordered map, used where column order does not matter.
func (i Item) Record() map[string]any {
	record := make(map[string]any, len(i.Fields))
	for _, f := range i.Fields {
		record[f.Name] = f.Value
	}
	return record
}

// MarshalJSON writes the row as a flat object with keys in CSV header order.
func (i Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for n, f := range i.Fields {
		if n > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
