package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// fixture builds users(id, email) <- orders(id, user_id) with one relation.
func fixture() DatabaseSchema {
	return DatabaseSchema{
		Tables: []Table{
			{ID: "t-users", Name: "users", Position: Position{X: 100, Y: 100}, Columns: []Column{
				{ID: "c-users-id", Name: "id", Type: UUID, IsPrimaryKey: true, IsNotNull: true, IsUnique: true},
				{ID: "c-users-email", Name: "email", Type: Varchar, IsNotNull: true, IsUnique: true},
			}},
			{ID: "t-orders", Name: "orders", Position: Position{X: 460, Y: 100}, Columns: []Column{
				{ID: "c-orders-id", Name: "id", Type: Serial, IsPrimaryKey: true, IsNotNull: true, IsUnique: true},
				{ID: "c-orders-user", Name: "user_id", Type: UUID},
				{ID: "c-orders-total", Name: "total", Type: DoublePrecision},
			}},
		},
		Relations: []Relation{
			{ID: "r1", FromTableID: "t-orders", FromColumnID: "c-orders-user", ToTableID: "t-users", ToColumnID: "c-users-id", Type: OneToMany},
		},
	}
}

func TestDeleteTableCascades(t *testing.T) {
	s := fixture()
	out, err := s.DeleteTable("t-users")
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if len(out.Tables) != 1 || out.Tables[0].Name != "orders" {
		t.Errorf("\ngot tables %v, wanted only orders", out.Tables)
	}
	if len(out.Relations) != 0 {
		t.Errorf("\ngot relations %v, wanted none", out.Relations)
	}
	if len(s.Tables) != 2 || len(s.Relations) != 1 {
		t.Errorf("\noriginal schema was modified: %v", s)
	}

	if _, err := s.DeleteTable("nope"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("\ngot error %v, wanted ErrTableNotFound", err)
	}
}

func TestDeleteColumnCascades(t *testing.T) {
	s := fixture()
	out, err := s.DeleteColumn("t-orders", "c-orders-user")
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if len(out.Tables[1].Columns) != 2 {
		t.Errorf("\ngot %d columns, wanted 2", len(out.Tables[1].Columns))
	}
	if len(out.Relations) != 0 {
		t.Errorf("\ngot relations %v, wanted none", out.Relations)
	}

	out, err = s.DeleteColumn("t-orders", "c-orders-total")
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if len(out.Relations) != 1 {
		t.Errorf("\ndeleting an unrelated column dropped relations: %v", out.Relations)
	}

	if _, err := s.DeleteColumn("t-orders", "missing"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("\ngot error %v, wanted ErrColumnNotFound", err)
	}
}

func TestReorderColumns(t *testing.T) {
	var tests = []struct {
		name     string
		from, to int
		order    string
		errIsNil bool
	}{
		{"first to last", 0, 2, "user_id,total,id", true},
		{"last to first", 2, 0, "total,id,user_id", true},
		{"same place", 1, 1, "id,user_id,total", true},
		{"out of range", 0, 3, "", false},
		{"negative", -1, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixture()
			out, err := s.ReorderColumns("t-orders", tt.from, tt.to)
			if (err == nil) != tt.errIsNil {
				t.Fatalf("\ngot error %v, wanted error: %v", err, !tt.errIsNil)
			}
			if err != nil {
				if !errors.Is(err, ErrIndexOutOfRange) {
					t.Errorf("\ngot error %v, wanted ErrIndexOutOfRange", err)
				}
				return
			}
			var names []string
			for _, c := range out.Tables[1].Columns {
				names = append(names, c.Name)
			}
			if got := strings.Join(names, ","); got != tt.order {
				t.Errorf("\ngot order %s, wanted %s", got, tt.order)
			}
			if s.Tables[1].Columns[0].Name != "id" {
				t.Errorf("\noriginal column order was modified")
			}
		})
	}
}

func TestSwapRelation(t *testing.T) {
	s := fixture()
	out, err := s.SwapRelation("r1")
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	r := out.Relations[0]
	if r.FromTableID != "t-users" || r.FromColumnID != "c-users-id" || r.ToTableID != "t-orders" || r.ToColumnID != "c-orders-user" {
		t.Errorf("\ngot relation %+v, wanted endpoints swapped", r)
	}
	if s.Relations[0].FromTableID != "t-orders" {
		t.Errorf("\noriginal relation was modified")
	}
	if _, err := s.SwapRelation("r2"); !errors.Is(err, ErrRelationNotFound) {
		t.Errorf("\ngot error %v, wanted ErrRelationNotFound", err)
	}
}

func TestSetRelationType(t *testing.T) {
	s := fixture()
	out, err := s.SetRelationType("r1", OneToOne)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if out.Relations[0].Type != OneToOne {
		t.Errorf("\ngot type %s, wanted 1:1", out.Relations[0].Type)
	}
	if _, err := s.SetRelationType("r1", "N:M"); !errors.Is(err, ErrInvalidRelationType) {
		t.Errorf("\ngot error %v, wanted ErrInvalidRelationType", err)
	}
}

func TestAddRelation(t *testing.T) {
	s := fixture()

	out, rel, err := s.AddRelation("t-orders", "c-orders-id", "t-users", "c-users-email", "")
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if rel.Type != OneToMany || rel.ID == "" {
		t.Errorf("\ngot relation %+v, wanted a 1:N relation with an id", rel)
	}
	if len(out.Relations) != 2 || len(s.Relations) != 1 {
		t.Errorf("\ngot %d relations (original %d), wanted 2 (1)", len(out.Relations), len(s.Relations))
	}

	var tests = []struct {
		name            string
		ft, fc, tt2, tc string
		want            error
	}{
		{"duplicate", "t-orders", "c-orders-user", "t-users", "c-users-id", ErrDuplicateRelation},
		{"missing table", "t-nope", "c-orders-user", "t-users", "c-users-id", ErrTableNotFound},
		{"missing column", "t-orders", "c-nope", "t-users", "c-users-id", ErrColumnNotFound},
		{"column of other table", "t-orders", "c-users-id", "t-users", "c-users-id", ErrColumnNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.AddRelation(tt.ft, tt.fc, tt.tt2, tt.tc, OneToMany)
			if !errors.Is(err, tt.want) {
				t.Errorf("\ngot error %v, wanted %v", err, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if err := fixture().Check(); err != nil {
		t.Errorf("\ngot unexpected error: \"%v\"", err)
	}

	bad := fixture()
	bad.Tables[0].Columns[0].IsUnique = false
	bad.Relations = append(bad.Relations, Relation{ID: "r2", FromTableID: "t-orders", FromColumnID: "gone", ToTableID: "t-users", ToColumnID: "c-users-id", Type: OneToOne})
	err := bad.Check()
	if err == nil {
		t.Fatalf("\nexpected an error, did not receive one")
	}
	for _, want := range []string{"users.id: primary key", "relation r2"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("\nerror %q does not mention %q", err, want)
		}
	}
}

func TestMerge(t *testing.T) {
	current := fixture()
	imported := DatabaseSchema{
		Tables: []Table{
			{ID: "t-a", Name: "a", Position: Position{X: 100, Y: 100}},
			{ID: "t-b", Name: "b", Position: Position{X: 460, Y: 100}},
		},
		Relations: []Relation{{ID: "r-ab", FromTableID: "t-b", ToTableID: "t-a", Type: OneToMany}},
	}

	out := Merge(current, imported, 360)
	if len(out.Tables) != 4 || len(out.Relations) != 2 {
		t.Fatalf("\ngot %d tables and %d relations, wanted 4 and 2", len(out.Tables), len(out.Relations))
	}
	// rightmost current table is at 460, so the imported grid starts at 820
	if x := out.Tables[2].Position.X; x != 820 {
		t.Errorf("\ngot x %v for first imported table, wanted 820", x)
	}
	if x := out.Tables[3].Position.X; x != 1180 {
		t.Errorf("\ngot x %v for second imported table, wanted 1180", x)
	}
	if imported.Tables[0].Position.X != 100 {
		t.Errorf("\nimported schema was modified")
	}

	into := Merge(Empty(), imported, 360)
	if into.Tables[0].Position.X != 100 {
		t.Errorf("\nmerging into an empty schema shifted tables to %v", into.Tables[0].Position.X)
	}
}

func TestImportMode(t *testing.T) {
	var tests = []struct {
		in       string
		want     ImportMode
		errIsNil bool
	}{
		{"", ImportReplace, true},
		{"replace", ImportReplace, true},
		{"MERGE", ImportMerge, true},
		{"append", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseImportMode(tt.in)
			if m != tt.want || (err == nil) != tt.errIsNil {
				t.Errorf("\ngot mode %q err %v, wanted %q (error: %v)", m, err, tt.want, !tt.errIsNil)
			}
		})
	}

	imported := DatabaseSchema{Tables: []Table{{ID: "t-a", Name: "a"}}}
	if out := ImportReplace.Apply(fixture(), imported, 360); len(out.Tables) != 1 {
		t.Errorf("\nreplace kept %d tables, wanted 1", len(out.Tables))
	}
	if out := ImportMerge.Apply(fixture(), imported, 360); len(out.Tables) != 3 {
		t.Errorf("\nmerge kept %d tables, wanted 3", len(out.Tables))
	}
}

func TestMarshalEmptySchema(t *testing.T) {
	b, err := json.Marshal(DatabaseSchema{Tables: []Table{{ID: "t", Name: "t"}}})
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	want := `{"tables":[{"id":"t","name":"t","columns":[],"position":{"x":0,"y":0}}],"relations":[]}`
	if string(b) != want {
		t.Errorf("\ngot %s, wanted %s", b, want)
	}
}
