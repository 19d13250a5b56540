//go:build oracle
// +build oracle

package extractors

import (
	sq "github.com/Masterminds/squirrel"
	_ "github.com/godror/godror"

	"erdsql/internal/db"
)

// oracle lists the tables of every non-maintained user.
var oracle = db.Catalog{
	Tables: sq.Expr(`
	    SELECT atab.owner, atab.table_name
	    FROM all_users ausr
	    JOIN all_tables atab ON ausr.username = atab.owner
	    WHERE ausr.oracle_maintained = 'N'
	    ORDER BY atab.owner, atab.table_name`),

	Columns: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("column_name", "data_type", "CASE WHEN nullable = 'Y' THEN 1 ELSE 0 END").
			From("all_tab_columns").
			Where(sq.Eq{"owner": schemaName, "table_name": table}).
			OrderBy("column_id").
			PlaceholderFormat(sq.Colon)
	},

	Keys: func(schemaName, table string) sq.Sqlizer {
		return sq.Select("ac.constraint_name", "CASE ac.constraint_type WHEN 'P' THEN 'PRIMARY KEY' ELSE 'UNIQUE' END", "acc.column_name").
			From("all_cons_columns acc").
			Join("all_constraints ac ON acc.owner = ac.owner AND acc.constraint_name = ac.constraint_name").
			Where(sq.Eq{"acc.owner": schemaName, "acc.table_name": table, "ac.constraint_type": []string{"P", "U"}}).
			OrderBy("ac.constraint_name", "acc.position").
			PlaceholderFormat(sq.Colon)
	},

	ForeignKeys: sq.Expr(`
	    SELECT a.owner, a.table_name,
	           listagg(acc.column_name, ', ') within group (order by acc.position),
	           rcc.owner, rcc.table_name,
	           listagg(rcc.column_name, ', ') within group (order by rcc.position),
	           a.constraint_name
	    FROM all_users ausr
	    JOIN all_constraints a ON ausr.username = a.owner
	    JOIN all_cons_columns acc
	      ON a.owner = acc.owner
	     AND a.constraint_name = acc.constraint_name
	    JOIN all_cons_columns rcc
	      ON a.r_owner = rcc.owner
	     AND a.r_constraint_name = rcc.constraint_name
	     AND nvl(acc.position, 0) = nvl(rcc.position, 0)
	    WHERE a.constraint_type = 'R'
	      AND ausr.oracle_maintained = 'N'
	    GROUP BY a.owner, a.table_name, rcc.owner, rcc.table_name, a.constraint_name`),
}

func init() {
	db.Register("godror", oracle)
	db.Register("oracle", oracle)
}
