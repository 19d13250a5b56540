package ddl

import (
	"strings"

	"erdsql/internal/introspect"
	"erdsql/internal/schema"
)

// FromCatalog converts an extracted database catalog into the diagram model
// with the same type normalization and reference rules as Parse.
func FromCatalog(cat introspect.Schema, grid schema.Grid) Result {
	p := &parser{}
	for _, t := range cat.Tables {
		table := schema.Table{ID: schema.NewID(), Name: foldName(t.Name), Columns: []schema.Column{}}
		for _, c := range t.Columns {
			table.Columns = append(table.Columns, schema.Column{
				ID:           schema.NewID(),
				Name:         foldName(c.Name),
				Type:         schema.NormalizeType(c.Type),
				IsPrimaryKey: c.PK,
				IsNotNull:    c.PK || !c.Nullable,
				IsUnique:     c.PK || c.Unique,
			})
		}
		p.tables = append(p.tables, table)
	}

	for _, fk := range cat.ForeignKeys {
		from, to := fk.Columns()
		p.addForeignKey(foldName(fk.FromTable), foldColumns(from), foldName(fk.ToTable), foldColumns(to))
	}
	return p.result(grid)
}

// foldName lower-cases a catalog name. Catalog names arrive unquoted, so
// spaces and dots are part of the name.
func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = foldName(c)
	}
	return out
}
