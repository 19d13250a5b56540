package ddl

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/jackc/pgx/v5"

	"erdsql/internal/schema"
)

// EmptySchemaComment is the whole output for a schema without tables.
const EmptySchemaComment = "-- No tables defined\n"

// maxIdentLen is PostgreSQL's NAMEDATALEN-1.
const maxIdentLen = 63

// GeneratePostgreSQL renders s as CREATE TABLE statements in table order
// followed by one ALTER TABLE ... FOREIGN KEY per relation. Relations whose
// endpoints do not resolve are left out.
func GeneratePostgreSQL(s schema.DatabaseSchema) string {
	if len(s.Tables) == 0 {
		return EmptySchemaComment
	}

	var b strings.Builder
	for i, t := range s.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCreateTable(&b, t)
	}

	names := constraintNames{}
	first := true
	for _, r := range s.Relations {
		from, to, ok := endpoints(s, r)
		if !ok {
			continue
		}
		if first {
			b.WriteString("\n")
			first = false
		}
		name := names.next(from.table.Name, from.column.Name, to.table.Name, to.column.Name)
		fmt.Fprintf(&b, "ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);\n",
			quoteIdent(from.table.Name), quoteIdent(name), quoteIdent(from.column.Name),
			quoteIdent(to.table.Name), quoteIdent(to.column.Name))
	}
	return b.String()
}

func writeCreateTable(b *strings.Builder, t schema.Table) {
	lines := make([]string, 0, len(t.Columns)+1)
	var pk []string
	for _, c := range t.Columns {
		line := "  " + quoteIdent(c.Name) + " " + strings.ToUpper(string(c.Type))
		if c.IsNotNull {
			line += " NOT NULL"
		}
		// the PRIMARY KEY clause already implies uniqueness
		if c.IsUnique && !c.IsPrimaryKey {
			line += " UNIQUE"
		}
		if c.IsPrimaryKey {
			pk = append(pk, quoteIdent(c.Name))
		}
		lines = append(lines, line)
	}
	if len(pk) > 0 {
		lines = append(lines, "  PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	}

	if len(lines) == 0 {
		fmt.Fprintf(b, "CREATE TABLE %s ();\n", quoteIdent(t.Name))
		return
	}
	fmt.Fprintf(b, "CREATE TABLE %s (\n%s\n);\n", quoteIdent(t.Name), strings.Join(lines, ",\n"))
}

// endpoints looks up both sides of r by id.
func endpoints(s schema.DatabaseSchema, r schema.Relation) (from, to endpoint, ok bool) {
	if from.table, ok = s.Table(r.FromTableID); !ok {
		return
	}
	if from.column, ok = from.table.Column(r.FromColumnID); !ok {
		return
	}
	if to.table, ok = s.Table(r.ToTableID); !ok {
		return
	}
	to.column, ok = to.table.Column(r.ToColumnID)
	return
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// constraintNames hands out fk_<from>_<col>_<to>_<col> names that are valid
// PostgreSQL identifiers and unique within one script.
type constraintNames map[string]int

func (n constraintNames) next(parts ...string) string {
	base := "fk_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '_'
	}, strings.Join(parts, "_"))

	if len(base) > maxIdentLen {
		h := fnv.New32a()
		h.Write([]byte(base))
		base = fmt.Sprintf("%s_%08x", base[:maxIdentLen-9], h.Sum32())
	}

	n[base]++
	if c := n[base]; c > 1 {
		suffix := fmt.Sprintf("_%d", c)
		if len(base)+len(suffix) > maxIdentLen {
			return base[:maxIdentLen-len(suffix)] + suffix
		}
		return base + suffix
	}
	return base
}
