package extractors

import (
	sq "github.com/Masterminds/squirrel"

	"erdsql/internal/db"
)

var systemSchemas = []string{"mysql", "information_schema", "performance_schema", "sys"}

// mysql reports column_type so lengths survive, e.g. varchar(255).
var mysql = db.Catalog{
	Tables: sq.Select("table_schema", "table_name").
		From("information_schema.tables").
		Where("table_type = 'BASE TABLE'").
		Where(sq.NotEq{"table_schema": systemSchemas}).
		OrderBy("table_schema", "table_name"),

	Columns: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("column_name", "column_type", "CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END").
			From("information_schema.columns").
			Where(sq.Eq{"table_schema": schemaName, "table_name": table}).
			OrderBy("ordinal_position")
	},

	Keys: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("tc.constraint_name", "tc.constraint_type", "k.column_name").
			From("information_schema.table_constraints tc").
			Join("information_schema.key_column_usage k ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema AND k.table_name = tc.table_name").
			Where(sq.Eq{"tc.table_schema": schemaName, "tc.table_name": table, "tc.constraint_type": []string{db.PrimaryKey, "UNIQUE"}}).
			OrderBy("tc.constraint_name", "k.ordinal_position")
	},

	ForeignKeys: sq.Select(
		"table_schema", "table_name",
		"group_concat(column_name ORDER BY ordinal_position separator ', ')",
		"referenced_table_schema", "referenced_table_name",
		"group_concat(referenced_column_name ORDER BY ordinal_position separator ', ')",
		"constraint_name").
		From("information_schema.key_column_usage").
		Where("referenced_table_name IS NOT NULL").
		Where(sq.NotEq{"table_schema": systemSchemas}).
		GroupBy("table_schema", "table_name", "referenced_table_schema", "referenced_table_name", "constraint_name"),
}

func init() {
	db.Register("mysql", mysql)
	db.Register("mariadb", mysql)
}
