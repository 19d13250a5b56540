package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrTableNotFound       = errors.New("table not found")
	ErrColumnNotFound      = errors.New("column not found")
	ErrRelationNotFound    = errors.New("relation not found")
	ErrIndexOutOfRange     = errors.New("column index out of range")
	ErrDuplicateRelation   = errors.New("relation already exists")
	ErrInvalidRelationType = errors.New("invalid relation type")
)

func (s DatabaseSchema) tableIndex(id string) (int, error) {
	for i, t := range s.Tables {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTableNotFound, id)
}

func (s DatabaseSchema) relationIndex(id string) (int, error) {
	for i, r := range s.Relations {
		if r.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrRelationNotFound, id)
}

// keepRelations returns the relations for which keep is true.
func keepRelations(rels []Relation, keep func(Relation) bool) []Relation {
	out := make([]Relation, 0, len(rels))
	for _, r := range rels {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// DeleteTable removes a table and every relation that touches it.
func (s DatabaseSchema) DeleteTable(tableID string) (DatabaseSchema, error) {
	i, err := s.tableIndex(tableID)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.Tables = append(out.Tables[:i], out.Tables[i+1:]...)
	out.Relations = keepRelations(out.Relations, func(r Relation) bool {
		return r.FromTableID != tableID && r.ToTableID != tableID
	})
	return out, nil
}

// DeleteColumn removes a column and every relation that uses it as an endpoint.
func (s DatabaseSchema) DeleteColumn(tableID, columnID string) (DatabaseSchema, error) {
	ti, err := s.tableIndex(tableID)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	cols := out.Tables[ti].Columns
	for ci, c := range cols {
		if c.ID != columnID {
			continue
		}
		out.Tables[ti].Columns = append(cols[:ci], cols[ci+1:]...)
		out.Relations = keepRelations(out.Relations, func(r Relation) bool {
			return !(r.FromTableID == tableID && r.FromColumnID == columnID) &&
				!(r.ToTableID == tableID && r.ToColumnID == columnID)
		})
		return out, nil
	}
	return s, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, tableID, columnID)
}

// ReorderColumns moves the column at index from to index to.
func (s DatabaseSchema) ReorderColumns(tableID string, from, to int) (DatabaseSchema, error) {
	ti, err := s.tableIndex(tableID)
	if err != nil {
		return s, err
	}
	n := len(s.Tables[ti].Columns)
	if from < 0 || from >= n || to < 0 || to >= n {
		return s, fmt.Errorf("%w: move %d to %d in %d columns", ErrIndexOutOfRange, from, to, n)
	}
	out := s.Clone()
	cols := out.Tables[ti].Columns
	moved := cols[from]
	cols = append(cols[:from], cols[from+1:]...)
	cols = append(cols[:to], append([]Column{moved}, cols[to:]...)...)
	out.Tables[ti].Columns = cols
	return out, nil
}

// SwapRelation exchanges the endpoints of a relation.
func (s DatabaseSchema) SwapRelation(relationID string) (DatabaseSchema, error) {
	ri, err := s.relationIndex(relationID)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	r := &out.Relations[ri]
	r.FromTableID, r.ToTableID = r.ToTableID, r.FromTableID
	r.FromColumnID, r.ToColumnID = r.ToColumnID, r.FromColumnID
	return out, nil
}

// SetRelationType changes the cardinality hint of a relation.
func (s DatabaseSchema) SetRelationType(relationID string, typ RelationType) (DatabaseSchema, error) {
	if !typ.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidRelationType, typ)
	}
	ri, err := s.relationIndex(relationID)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.Relations[ri].Type = typ
	return out, nil
}

// AddRelation links two existing columns. An empty type defaults to 1:N.
func (s DatabaseSchema) AddRelation(fromTableID, fromColumnID, toTableID, toColumnID string, typ RelationType) (DatabaseSchema, Relation, error) {
	if typ == "" {
		typ = OneToMany
	}
	if !typ.Valid() {
		return s, Relation{}, fmt.Errorf("%w: %q", ErrInvalidRelationType, typ)
	}
	if err := s.requireColumn(fromTableID, fromColumnID); err != nil {
		return s, Relation{}, err
	}
	if err := s.requireColumn(toTableID, toColumnID); err != nil {
		return s, Relation{}, err
	}
	for _, r := range s.Relations {
		if r.FromTableID == fromTableID && r.FromColumnID == fromColumnID &&
			r.ToTableID == toTableID && r.ToColumnID == toColumnID {
			return s, Relation{}, ErrDuplicateRelation
		}
	}
	rel := Relation{
		ID:           NewID(),
		FromTableID:  fromTableID,
		FromColumnID: fromColumnID,
		ToTableID:    toTableID,
		ToColumnID:   toColumnID,
		Type:         typ,
	}
	out := s.Clone()
	out.Relations = append(out.Relations, rel)
	return out, rel, nil
}

func (s DatabaseSchema) requireColumn(tableID, columnID string) error {
	t, ok := s.Table(tableID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if _, ok := t.Column(columnID); !ok {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, t.Name, columnID)
	}
	return nil
}

// Check verifies the model invariants and reports every violation found.
func (s DatabaseSchema) Check() error {
	var problems []string
	ids := map[string]bool{}
	for _, t := range s.Tables {
		if ids[t.ID] {
			problems = append(problems, fmt.Sprintf("duplicate table id %q", t.ID))
		}
		ids[t.ID] = true
		colIDs := map[string]bool{}
		for _, c := range t.Columns {
			if colIDs[c.ID] {
				problems = append(problems, fmt.Sprintf("duplicate column id %q in %s", c.ID, t.Name))
			}
			colIDs[c.ID] = true
			if !c.Type.Valid() {
				problems = append(problems, fmt.Sprintf("%s.%s: unknown type %q", t.Name, c.Name, c.Type))
			}
			if c.IsPrimaryKey && !(c.IsNotNull && c.IsUnique) {
				problems = append(problems, fmt.Sprintf("%s.%s: primary key must be not null and unique", t.Name, c.Name))
			}
		}
	}
	for _, r := range s.Relations {
		if !r.Type.Valid() {
			problems = append(problems, fmt.Sprintf("relation %s: invalid type %q", r.ID, r.Type))
		}
		if err := s.requireColumn(r.FromTableID, r.FromColumnID); err != nil {
			problems = append(problems, fmt.Sprintf("relation %s: %v", r.ID, err))
		}
		if err := s.requireColumn(r.ToTableID, r.ToColumnID); err != nil {
			problems = append(problems, fmt.Sprintf("relation %s: %v", r.ID, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ImportMode decides how an imported schema combines with the current one.
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

// ParseImportMode accepts "replace", "merge" or "" (replace).
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportReplace:
		return ImportReplace, nil
	case ImportMerge:
		return ImportMerge, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (want replace or merge)", s)
	}
}

// Apply combines current and imported according to the mode.
func (m ImportMode) Apply(current, imported DatabaseSchema, xGap float64) DatabaseSchema {
	if m == ImportMerge {
		return Merge(current, imported, xGap)
	}
	return imported.Clone()
}

// Merge appends the imported tables so the leftmost of them sits one xGap to
// the right of the current rightmost table, and unions the relation lists.
func Merge(current, imported DatabaseSchema, xGap float64) DatabaseSchema {
	out := current.Clone()
	in := imported.Clone()
	if len(out.Tables) > 0 && len(in.Tables) > 0 {
		maxX, minX := math.Inf(-1), math.Inf(1)
		for _, t := range out.Tables {
			maxX = math.Max(maxX, t.Position.X)
		}
		for _, t := range in.Tables {
			minX = math.Min(minX, t.Position.X)
		}
		shift := maxX + xGap - minX
		for i := range in.Tables {
			in.Tables[i].Position.X += shift
		}
	}
	out.Tables = append(out.Tables, in.Tables...)
	out.Relations = append(out.Relations, in.Relations...)
	return out
}
