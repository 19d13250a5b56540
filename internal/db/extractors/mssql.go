package extractors

import (
	sq "github.com/Masterminds/squirrel"

	"erdsql/internal/db"
)

// mssql uses @pN placeholders, which go-mssqldb binds positionally.
var mssql = db.Catalog{
	Tables: sq.Expr(`
        SELECT s.name, t.name
        FROM sys.schemas AS s
        JOIN sys.tables AS t ON s.schema_id = t.schema_id
        ORDER BY s.name, t.name`),

	Columns: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("COLUMN_NAME", "DATA_TYPE", "CASE WHEN IS_NULLABLE = 'YES' THEN 1 ELSE 0 END").
			From("INFORMATION_SCHEMA.COLUMNS").
			Where(sq.Eq{"TABLE_SCHEMA": schemaName, "TABLE_NAME": table}).
			OrderBy("ORDINAL_POSITION").
			PlaceholderFormat(sq.AtP)
	},

	Keys: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("t.CONSTRAINT_NAME", "t.CONSTRAINT_TYPE", "k.COLUMN_NAME").
			From("INFORMATION_SCHEMA.TABLE_CONSTRAINTS t").
			Join("INFORMATION_SCHEMA.KEY_COLUMN_USAGE k ON t.CONSTRAINT_NAME = k.CONSTRAINT_NAME AND t.TABLE_SCHEMA = k.TABLE_SCHEMA").
			Where(sq.Eq{"k.TABLE_SCHEMA": schemaName, "k.TABLE_NAME": table, "t.CONSTRAINT_TYPE": []string{db.PrimaryKey, "UNIQUE"}}).
			OrderBy("t.CONSTRAINT_NAME", "k.ORDINAL_POSITION").
			PlaceholderFormat(sq.AtP)
	},

	ForeignKeys: sq.Expr(`
        SELECT
            OBJECT_SCHEMA_NAME(fkc.parent_object_id),
            OBJECT_NAME(fkc.parent_object_id),
            STRING_AGG(c.NAME, ', ') WITHIN GROUP (ORDER BY fkc.constraint_column_id),
            OBJECT_SCHEMA_NAME(fkc.referenced_object_id),
            OBJECT_NAME(fkc.referenced_object_id),
            STRING_AGG(rc.NAME, ', ') WITHIN GROUP (ORDER BY fkc.constraint_column_id),
            fk.name
        FROM sys.foreign_keys fk
        JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
        JOIN sys.columns c ON fkc.parent_object_id = c.object_id AND fkc.parent_column_id = c.column_id
        JOIN sys.columns rc ON fkc.referenced_object_id = rc.object_id AND fkc.referenced_column_id = rc.column_id
        GROUP BY fk.name, fkc.parent_object_id, fkc.referenced_object_id`),
}

func init() {
	db.Register("sqlserver", mssql)
	db.Register("mssql", mssql)
}
