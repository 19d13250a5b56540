// Package introspect holds the raw catalog read from a live database before
// it is converted into the diagram model.
package introspect

import "strings"

// Column is one catalog column. Type is the database's own spelling.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	PK       bool   `json:"pk"`
	Unique   bool   `json:"unique"`
}

// ForeignKey is one foreign key constraint. Multi-column keys carry their
// columns comma separated in constraint order.
type ForeignKey struct {
	FromSchema string `json:"from_schema,omitempty"`
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	ToSchema   string `json:"to_schema,omitempty"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"`
	Constraint string `json:"constraint,omitempty"`
}

// Columns splits FromColumn and ToColumn.
func (fk ForeignKey) Columns() (from, to []string) {
	return splitList(fk.FromColumn), splitList(fk.ToColumn)
}

// Table is a base table with its columns in ordinal order.
type Table struct {
	Schema  string   `json:"schema,omitempty"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column returns a pointer to the named column so extractors can set key flags.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Schema is everything an extractor reads from one database.
type Schema struct {
	Tables      []Table      `json:"tables"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
