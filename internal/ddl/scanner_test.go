package ddl

import (
	"reflect"
	"testing"
)

func TestSplitTopLevel(t *testing.T) {
	var tests = []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "a int, b text", []string{"a int", "b text"}},
		{"nested parens", "total numeric(10,2), PRIMARY KEY (a, b)", []string{"total numeric(10,2)", "PRIMARY KEY (a, b)"}},
		{"single quotes", "c text DEFAULT 'x,y', d int", []string{"c text DEFAULT 'x,y'", "d int"}},
		{"double quotes", `"a,b" int, c int`, []string{`"a,b" int`, "c int"}},
		{"backticks", "`a,b` int, c int", []string{"`a,b` int", "c int"}},
		{"escaped quote", `c text DEFAULT 'it\'s, fine', d int`, []string{`c text DEFAULT 'it\'s, fine'`, "d int"}},
		{"empty parts dropped", " a , , b ,", []string{"a", "b"}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitTopLevel(tt.in, ',')
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("\ngot %q, wanted %q", got, tt.want)
			}
		})
	}
}

func TestClosingParen(t *testing.T) {
	var tests = []struct {
		in   string
		open int
		want int
	}{
		{"t (a int)", 2, 8},
		{"t (a numeric(1,2), b int) tail", 2, 24},
		{"t (a text default ')')", 2, 21},
		{"t (a int", 2, -1},
		{"t (a int)", 0, -1},
	}

	for _, tt := range tests {
		if got := closingParen(tt.in, tt.open); got != tt.want {
			t.Errorf("\ngot %d for %q, wanted %d", got, tt.in, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	var tests = []struct {
		in, want string
	}{
		{"users", "users"},
		{"Users", "users"},
		{`"Users"`, "users"},
		{"`users`", "users"},
		{"[users]", "users"},
		{"public.users", "users"},
		{`"public"."Order Items"`, "order items"},
		{`"say ""hi"""`, `say "hi"`},
		{"dbo . [users]", "users"},
	}

	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("\ngot %q for %s, wanted %q", got, tt.in, tt.want)
		}
	}
}

func TestColumnList(t *testing.T) {
	got := columnList(`"A", b DESC, [c]`)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("\ngot %q, wanted %q", got, want)
	}
}
