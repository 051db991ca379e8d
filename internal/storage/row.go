package storage

import (
	"bytes"
	"encoding/json"
)

// Row is one result row with its column order preserved. Serializing a
// plain map would alphabetize keys; callers see columns in the order the
// query selected them.
type Row struct {
	columns []string
	values  []any
}

// NewRow pairs column names with their scanned values.
func NewRow(columns []string, values []any) Row {
	return Row{columns: columns, values: values}
}

// Columns returns the column names in select order.
func (r Row) Columns() []string {
	return r.columns
}

// Get returns the value for a column name.
func (r Row) Get(name string) (any, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON emits the row as a JSON object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
