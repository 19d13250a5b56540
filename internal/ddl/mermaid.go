package ddl

import (
	"fmt"
	"strings"

	"erdsql/internal/schema"
)

// GenerateMermaid renders s as a Mermaid erDiagram. The referenced table is
// written on the left of each relationship line.
func GenerateMermaid(s schema.DatabaseSchema) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	foreign := make(map[string]bool)
	for _, r := range s.Relations {
		from, to, ok := endpoints(s, r)
		if !ok {
			continue
		}
		foreign[from.column.ID] = true

		card := "||--o{"
		if r.Type == schema.OneToOne {
			card = "||--||"
		}
		fmt.Fprintf(&b, "    %s %s %s : \"%s\"\n",
			mermaidEntity(to.table.Name), card, mermaidEntity(from.table.Name),
			strings.ReplaceAll(from.column.Name, `"`, ""))
	}

	for _, t := range s.Tables {
		fmt.Fprintf(&b, "    %s {\n", mermaidEntity(t.Name))
		for _, c := range t.Columns {
			var keys []string
			if c.IsPrimaryKey {
				keys = append(keys, "PK")
			}
			if foreign[c.ID] {
				keys = append(keys, "FK")
			}
			if c.IsUnique && !c.IsPrimaryKey {
				keys = append(keys, "UK")
			}
			line := mermaidWord(strings.ReplaceAll(string(c.Type), " ", "_")) + " " + mermaidWord(c.Name)
			if len(keys) > 0 {
				line += " " + strings.Join(keys, ", ")
			}
			fmt.Fprintf(&b, "        %s\n", line)
		}
		b.WriteString("    }\n")
	}
	return b.String()
}

func mermaidEntity(name string) string {
	return strings.ToUpper(mermaidWord(name))
}

// mermaidWord replaces everything Mermaid does not accept in a bare word.
func mermaidWord(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}
