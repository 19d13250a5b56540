package schema

import (
	"encoding/json"

	"github.com/google/uuid"
)

// RelationType is the cardinality hint shown on the diagram.
type RelationType string

const (
	OneToOne  RelationType = "1:1"
	OneToMany RelationType = "1:N"
)

// Valid reports whether t is one of the known relation types.
func (t RelationType) Valid() bool {
	return t == OneToOne || t == OneToMany
}

// Position is the canvas location of a table. It carries no schema meaning.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Column represents a table column.
type Column struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Type         ColumnType `json:"type" yaml:"type"`
	IsPrimaryKey bool       `json:"isPrimaryKey" yaml:"isPrimaryKey"`
	IsNotNull    bool       `json:"isNotNull" yaml:"isNotNull"`
	IsUnique     bool       `json:"isUnique" yaml:"isUnique"`
}

// Table represents a table, its ordered columns and where it sits on the canvas.
type Table struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Columns  []Column `json:"columns" yaml:"columns"`
	Position Position `json:"position" yaml:"position"`
}

// Relation is a directed edge from the referencing column (the foreign key holder)
// to the referenced column.
type Relation struct {
	ID           string       `json:"id" yaml:"id"`
	FromTableID  string       `json:"fromTableId" yaml:"fromTableId"`
	FromColumnID string       `json:"fromColumnId" yaml:"fromColumnId"`
	ToTableID    string       `json:"toTableId" yaml:"toTableId"`
	ToColumnID   string       `json:"toColumnId" yaml:"toColumnId"`
	Type         RelationType `json:"type" yaml:"type"`
}

// DatabaseSchema is the unit of import, export and persistence.
type DatabaseSchema struct {
	Tables    []Table    `json:"tables" yaml:"tables"`
	Relations []Relation `json:"relations" yaml:"relations"`
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Empty returns a schema with no tables and no relations.
func Empty() DatabaseSchema {
	return DatabaseSchema{Tables: []Table{}, Relations: []Relation{}}
}

// MarshalJSON renders nil slices as [] so consumers never see null.
func (s DatabaseSchema) MarshalJSON() ([]byte, error) {
	type plain DatabaseSchema
	out := plain(s)
	out.Tables = append([]Table{}, out.Tables...)
	for i := range out.Tables {
		if out.Tables[i].Columns == nil {
			out.Tables[i].Columns = []Column{}
		}
	}
	if out.Relations == nil {
		out.Relations = []Relation{}
	}
	return json.Marshal(out)
}

// Table returns the table with the given id.
func (s DatabaseSchema) Table(id string) (Table, bool) {
	for _, t := range s.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// Column returns the column with the given id, or false.
func (t Table) Column(id string) (Column, bool) {
	for _, c := range t.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnByName returns the first column whose name matches.
func (t Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the primary key columns in column order.
func (t Table) PrimaryKey() []Column {
	var pk []Column
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// Clone returns a deep copy that shares no slices with s.
func (s DatabaseSchema) Clone() DatabaseSchema {
	out := DatabaseSchema{
		Tables:    make([]Table, len(s.Tables)),
		Relations: append([]Relation{}, s.Relations...),
	}
	for i, t := range s.Tables {
		t.Columns = append([]Column{}, t.Columns...)
		out.Tables[i] = t
	}
	return out
}
