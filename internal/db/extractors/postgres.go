package extractors

import (
	sq "github.com/Masterminds/squirrel"

	"erdsql/internal/db"
)

// postgres reads information_schema; unique and primary keys come from
// table_constraints so multi-column constraints can be told apart.
var postgres = db.Catalog{
	Tables: sq.Select("table_schema", "table_name").
		From("information_schema.tables").
		Where("table_type = 'BASE TABLE'").
		Where(sq.NotEq{"table_schema": []string{"pg_catalog", "information_schema", "pg_toast"}}).
		OrderBy("table_schema", "table_name").
		PlaceholderFormat(sq.Dollar),

	Columns: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("column_name", "data_type", "CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END").
			From("information_schema.columns").
			Where(sq.Eq{"table_schema": schemaName, "table_name": table}).
			OrderBy("ordinal_position").
			PlaceholderFormat(sq.Dollar)
	},

	Keys: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("tc.constraint_name", "tc.constraint_type", "kcu.column_name").
			From("information_schema.table_constraints tc").
			Join("information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.constraint_schema = kcu.constraint_schema AND tc.table_name = kcu.table_name").
			Where(sq.Eq{"tc.table_schema": schemaName, "tc.table_name": table, "tc.constraint_type": []string{db.PrimaryKey, "UNIQUE"}}).
			OrderBy("tc.constraint_name", "kcu.ordinal_position").
			PlaceholderFormat(sq.Dollar)
	},

	ForeignKeys: sq.Expr(`
        SELECT
          tc.table_schema,
          tc.table_name,
          string_agg(kcu.column_name, ', ' ORDER BY kcu.ordinal_position),
          rkcu.table_schema,
          rkcu.table_name,
          string_agg(rkcu.column_name, ', ' ORDER BY rkcu.ordinal_position),
          tc.constraint_name
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
          ON tc.constraint_name = kcu.constraint_name
         AND tc.constraint_schema = kcu.constraint_schema
        JOIN information_schema.referential_constraints rc
          ON tc.constraint_name = rc.constraint_name
         AND tc.constraint_schema = rc.constraint_schema
        JOIN information_schema.key_column_usage rkcu
          ON rc.unique_constraint_name = rkcu.constraint_name
         AND rc.unique_constraint_schema = rkcu.constraint_schema
         AND kcu.position_in_unique_constraint = rkcu.ordinal_position
        WHERE tc.constraint_type = 'FOREIGN KEY'
          AND tc.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
        GROUP BY tc.table_schema, tc.table_name, rkcu.table_schema, rkcu.table_name, tc.constraint_name`),
}

func init() {
	db.Register("postgres", postgres)
	db.Register("postgresql", postgres)
}
