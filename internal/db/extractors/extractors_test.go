package extractors_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"erdsql/internal/db"
	_ "erdsql/internal/db/extractors"
	"erdsql/internal/introspect"
)

var sqliteSchema = []string{
	`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE, name TEXT)`,
	`CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		code VARCHAR(8),
		UNIQUE (user_id, code)
	)`,
	`CREATE TABLE notes (id INTEGER, owner INTEGER REFERENCES users)`,
}

func sqliteFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	defer conn.Close()
	for _, stmt := range sqliteSchema {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("\ngot unexpected error: \"%v\" for %s", err, stmt)
		}
	}
	return path
}

func column(t *testing.T, s introspect.Schema, table, name string) introspect.Column {
	t.Helper()
	for i := range s.Tables {
		if s.Tables[i].Name == table {
			if c := s.Tables[i].Column(name); c != nil {
				return *c
			}
		}
	}
	t.Fatalf("\ncolumn %s.%s not extracted", table, name)
	return introspect.Column{}
}

func TestSQLiteExtract(t *testing.T) {
	s, err := db.ConnectAndExtract(context.Background(), "sqlite", sqliteFile(t), 10*time.Second)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}

	var names []string
	for _, tab := range s.Tables {
		names = append(names, tab.Name)
	}
	if len(names) != 3 || names[0] != "notes" || names[1] != "orders" || names[2] != "users" {
		t.Errorf("\ngot tables %v, wanted [notes orders users]", names)
	}

	var tests = []struct {
		table, column string
		want          introspect.Column
	}{
		{"users", "id", introspect.Column{Name: "id", Type: "INTEGER", PK: true}},
		{"users", "email", introspect.Column{Name: "email", Type: "TEXT", Unique: true}},
		{"users", "name", introspect.Column{Name: "name", Type: "TEXT", Nullable: true}},
		{"orders", "user_id", introspect.Column{Name: "user_id", Type: "INTEGER"}},
		{"orders", "code", introspect.Column{Name: "code", Type: "VARCHAR(8)", Nullable: true}},
	}
	for _, tt := range tests {
		t.Run(tt.table+"."+tt.column, func(t *testing.T) {
			if got := column(t, s, tt.table, tt.column); got != tt.want {
				t.Errorf("\ngot %+v, wanted %+v", got, tt.want)
			}
		})
	}

	fks := map[string]introspect.ForeignKey{}
	for _, fk := range s.ForeignKeys {
		fks[fk.FromTable] = fk
	}
	if fk := fks["orders"]; fk.FromColumn != "user_id" || fk.ToTable != "users" || fk.ToColumn != "id" {
		t.Errorf("\ngot orders foreign key %+v", fk)
	}
	if fk := fks["notes"]; fk.FromColumn != "owner" || fk.ToTable != "users" || fk.ToColumn != "" {
		t.Errorf("\ngot notes foreign key %+v, wanted an empty target column", fk)
	}
}

func TestRegisteredDialects(t *testing.T) {
	want := map[string]bool{"postgres": true, "postgresql": true, "mysql": true, "mariadb": true, "sqlserver": true, "mssql": true, "sqlite": true, "sqlite3": true}
	for _, d := range db.RegisteredDialects() {
		delete(want, d)
	}
	if len(want) != 0 {
		t.Errorf("\ndialects not registered: %v", want)
	}
}
