package extractors

import (
	sq "github.com/Masterminds/squirrel"

	"erdsql/internal/db"
)

// sqlite reads the pragma table-valued functions. SQLite has no schemas,
// so the schema column is always NULL.
var sqlite = db.Catalog{
	Tables: sq.Select("NULL", "name").
		From("sqlite_master").
		Where("type = 'table'").
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("name"),

	Columns: func(_, table string) sq.Sqlizer {
		return sq.Expr(`
		    SELECT name, type, CASE WHEN "notnull" = 0 AND pk = 0 THEN 1 ELSE 0 END
		    FROM pragma_table_info(?)
		    ORDER BY cid`, table)
	},

	// the primary key has no row in pragma_index_list for rowid tables
	Keys: func(_, table string) sq.Sqlizer {
		return sq.Expr(`
		    SELECT 'pk', 'PRIMARY KEY', name FROM pragma_table_info(?) WHERE pk > 0
		    UNION ALL
		    SELECT il.name, 'UNIQUE', ii.name
		    FROM pragma_index_list(?) il
		    JOIN pragma_index_info(il.name) ii
		    WHERE il."unique" = 1 AND il.origin <> 'pk'`, table, table)
	},

	ForeignKeys: sq.Expr(`
	    SELECT NULL, m.name, group_concat(f."from", ', '),
	           NULL, f."table", group_concat(COALESCE(f."to", ''), ', '),
	           CAST(f.id AS TEXT)
	    FROM sqlite_master m
	    JOIN pragma_foreign_key_list(m.name) f
	    WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
	    GROUP BY m.name, f.id, f."table"`),
}

func init() {
	db.Register("sqlite3", sqlite)
	db.Register("sqlite", sqlite)
}
