package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"erdsql/internal/introspect"
	"erdsql/internal/logger"
)

// PrimaryKey is the constraint kind Keys queries report for primary keys.
// Any other kind is treated as a unique constraint.
const PrimaryKey = "PRIMARY KEY"

// Catalog is an Extractor described by its queries.
//
//	Tables      rows: schema, table
//	Columns     rows: column, type, nullable (1 or 0)
//	Keys        rows: constraint, kind, column
//	ForeignKeys rows: from schema, from table, from columns, to schema,
//	            to table, to columns, constraint
//
// Columns and Keys are built per table so each dialect picks its own
// placeholder format. Keys and ForeignKeys are optional.
type Catalog struct {
	Tables      sq.Sqlizer
	Columns     func(schemaName, table string) sq.Sqlizer
	Keys        func(schemaName, table string) sq.Sqlizer
	ForeignKeys sq.Sqlizer
}

// Extract implements Extractor.
func (c Catalog) Extract(ctx context.Context, dbConn *sql.DB) (introspect.Schema, error) {
	var s introspect.Schema

	err := Query(ctx, dbConn, c.Tables, func(rows *sql.Rows) error {
		var (
			tab        introspect.Table
			schemaName sql.NullString
		)
		if err := rows.Scan(&schemaName, &tab.Name); err != nil {
			return fmt.Errorf("scan table row: %w", err)
		}
		tab.Schema = schemaName.String
		s.Tables = append(s.Tables, tab)
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("query tables: %w", err)
	}

	for i := range s.Tables {
		t := &s.Tables[i]
		err := Query(ctx, dbConn, c.Columns(t.Schema, t.Name), func(rows *sql.Rows) error {
			var (
				col      introspect.Column
				nullable int
			)
			if err := rows.Scan(&col.Name, &col.Type, &nullable); err != nil {
				return err
			}
			col.Nullable = nullable == 1
			t.Columns = append(t.Columns, col)
			return nil
		})
		if err != nil {
			return s, fmt.Errorf("query columns for %s.%s: %w", t.Schema, t.Name, err)
		}

		if c.Keys == nil {
			continue
		}
		if err := readKeys(ctx, dbConn, c.Keys(t.Schema, t.Name), t); err != nil {
			logger.Error("query keys for %s.%s: %v", t.Schema, t.Name, err)
		}
	}

	if c.ForeignKeys == nil {
		return s, nil
	}
	err = Query(ctx, dbConn, c.ForeignKeys, func(rows *sql.Rows) error {
		var (
			fk                   introspect.ForeignKey
			fromSchema, toSchema sql.NullString
			constraint           sql.NullString
		)
		if err := rows.Scan(&fromSchema, &fk.FromTable, &fk.FromColumn, &toSchema, &fk.ToTable, &fk.ToColumn, &constraint); err != nil {
			logger.Error("scan foreign key: %v", err)
			return nil
		}
		fk.FromSchema, fk.ToSchema, fk.Constraint = fromSchema.String, toSchema.String, constraint.String
		s.ForeignKeys = append(s.ForeignKeys, fk)
		return nil
	})
	if err != nil {
		logger.Error("query foreign key: %v", err)
	}
	return s, nil
}

// readKeys sets PK on primary key columns and Unique on columns that carry
// a single-column unique constraint.
func readKeys(ctx context.Context, dbConn *sql.DB, q sq.Sqlizer, t *introspect.Table) error {
	type constraint struct {
		kind    string
		columns []string
	}
	var order []string
	byName := map[string]*constraint{}
	err := Query(ctx, dbConn, q, func(rows *sql.Rows) error {
		var name, kind, column string
		if err := rows.Scan(&name, &kind, &column); err != nil {
			return err
		}
		k, ok := byName[name]
		if !ok {
			k = &constraint{kind: kind}
			byName[name] = k
			order = append(order, name)
		}
		k.columns = append(k.columns, column)
		return nil
	})
	if err != nil {
		return err
	}

	for _, name := range order {
		k := byName[name]
		for _, colName := range k.columns {
			col := t.Column(colName)
			if col == nil {
				continue
			}
			switch {
			case k.kind == PrimaryKey:
				col.PK = true
			case len(k.columns) == 1:
				col.Unique = true
			}
		}
	}
	return nil
}

// Query runs q and calls each for every row.
func Query(ctx context.Context, dbConn *sql.DB, q sq.Sqlizer, each func(*sql.Rows) error) error {
	text, args, err := q.ToSql()
	if err != nil {
		return err
	}
	rows, err := dbConn.QueryContext(ctx, text, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
