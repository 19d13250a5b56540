// Package ddl converts between SQL DDL text and the diagram schema model.
package ddl

import (
	"fmt"
	"regexp"
	"strings"

	"erdsql/internal/schema"
)

// WarningKind classifies input that contributed nothing to the imported schema.
type WarningKind string

const (
	IgnoredStatement     WarningKind = "ignored-statement"
	UnparseableStatement WarningKind = "unparseable-statement"
	CompositeKey         WarningKind = "composite-key"
	UnresolvedReference  WarningKind = "unresolved-reference"
)

// Warning describes one skipped piece of input.
type Warning struct {
	Kind   WarningKind `json:"kind" yaml:"kind"`
	Detail string      `json:"detail" yaml:"detail"`
}

func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Detail
}

// Result is an imported schema plus everything the importer skipped.
type Result struct {
	Schema   schema.DatabaseSchema
	Warnings []Warning
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`--[^\n]*`)

	createTableHead = regexp.MustCompile(`(?is)^CREATE\s+(?:(?:GLOBAL|LOCAL)\s+)?(?:(?:TEMP|TEMPORARY|UNLOGGED)\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(` + qualifiedPattern + `)\s*\(`)
	alterTableHead  = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+(?:IF\s+EXISTS\s+)?(?:ONLY\s+)?(` + qualifiedPattern + `)\s+(.*)$`)

	foreignKeyClause = regexp.MustCompile(`(?is)^(?:ADD\s+)?(?:CONSTRAINT\s+` + identPattern + `\s+)?FOREIGN\s+KEY\s*(?:` + identPattern + `\s*)?\(([^)]*)\)\s*REFERENCES\s+(` + qualifiedPattern + `)\s*(?:\(([^)]*)\))?`)
	primaryKeyClause = regexp.MustCompile(`(?is)^(?:CONSTRAINT\s+` + identPattern + `\s+)?PRIMARY\s+KEY(?:\s+(?:CLUSTERED|NONCLUSTERED))?\s*\(([^)]*)\)`)
	uniqueClause     = regexp.MustCompile(`(?is)^(?:CONSTRAINT\s+` + identPattern + `\s+)?UNIQUE(?:\s+(?:KEY|INDEX))?(?:\s+(?:CLUSTERED|NONCLUSTERED))?(?:\s+` + identPattern + `)?\s*\(([^)]*)\)`)

	columnHead      = regexp.MustCompile(`(?s)^(` + identPattern + `)\s*(.*)$`)
	typeEnd         = regexp.MustCompile(`(?i)\b(?:PRIMARY\s+KEY|NOT\s+NULL|UNIQUE|DEFAULT|REFERENCES|CONSTRAINT|CHECK|GENERATED|COLLATE)\b`)
	primaryKeyFlag  = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY\b`)
	notNullFlag     = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	uniqueFlag      = regexp.MustCompile(`(?i)\bUNIQUE\b`)
	inlineReference = regexp.MustCompile(`(?is)\bREFERENCES\s+(` + qualifiedPattern + `)\s*(?:\(([^)]*)\))?`)
)

// skipDefinition matches table-level index and constraint forms that carry
// nothing the model records.
var skipDefinition = regexp.MustCompile(`(?is)^(?:` +
	`CONSTRAINT\s+` + identPattern + `\s+(?:CHECK|EXCLUDE|UNIQUE|PRIMARY|FOREIGN)\b` +
	`|CHECK\s*\(` +
	`|EXCLUDE\s*(?:USING\b|\()` +
	`|PRIMARY\s+KEY\b|FOREIGN\s+KEY\b` +
	`|UNIQUE\s*(?:\(|(?:KEY|INDEX|NULLS|USING|CLUSTERED|NONCLUSTERED)\b)` +
	// an index lists column names; a column type such as varchar(10) lists numbers
	`|(?:(?:FULLTEXT|SPATIAL)(?:\s+(?:KEY|INDEX))?|KEY|INDEX)\s*(?:` + identPattern + `\s*)?\(\s*[\p{L}_"\x60\[]` +
	`|LIKE\s+` + qualifiedPattern + `(?:\s+(?:INCLUDING|EXCLUDING)\b.*)?$` +
	`|PERIOD\s+FOR\b` +
	`)`)

// foreignKey is a single-column reference by name, resolved once every
// table has been read.
type foreignKey struct {
	fromTable, fromColumn string
	toTable, toColumn     string
}

func (fk foreignKey) String() string {
	to := fk.toTable
	if fk.toColumn != "" {
		to += "." + fk.toColumn
	}
	return fk.fromTable + "." + fk.fromColumn + " -> " + to
}

type parser struct {
	tables   []schema.Table
	fks      []foreignKey
	warnings []Warning
}

// ParseSQLToSchema imports a DDL script with the default grid layout. It
// never fails: anything it does not understand is skipped.
func ParseSQLToSchema(text string) schema.DatabaseSchema {
	return Parse(text, schema.DefaultGrid).Schema
}

// Parse imports a DDL script, lays tables out on grid and reports what was skipped.
func Parse(text string, grid schema.Grid) Result {
	p := &parser{}
	text = blockComment.ReplaceAllString(text, " ")
	text = lineComment.ReplaceAllString(text, "")
	for _, stmt := range splitStatements(text) {
		p.statement(stmt)
	}
	return p.result(grid)
}

func (p *parser) warn(kind WarningKind, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

func (p *parser) statement(stmt string) {
	if m := createTableHead.FindStringSubmatchIndex(stmt); m != nil {
		p.createTable(stmt, stmt[m[2]:m[3]], m[1]-1)
		return
	}
	if m := alterTableHead.FindStringSubmatch(stmt); m != nil && p.alterTable(normalizeName(m[1]), m[2]) {
		return
	}
	p.warn(IgnoredStatement, "%s", headline(stmt))
}

func (p *parser) createTable(stmt, rawName string, open int) {
	name := normalizeName(rawName)
	end := closingParen(stmt, open)
	if name == "" || end < 0 {
		p.warn(UnparseableStatement, "%s", headline(stmt))
		return
	}

	table := schema.Table{ID: schema.NewID(), Name: name, Columns: []schema.Column{}}
	var pk, unique []string
	for _, def := range splitTopLevel(stmt[open+1:end], ',') {
		if m := primaryKeyClause.FindStringSubmatch(def); m != nil {
			pk = append(pk, columnList(m[1])...)
			continue
		}
		if m := uniqueClause.FindStringSubmatch(def); m != nil {
			unique = append(unique, columnList(m[1])...)
			continue
		}
		if m := foreignKeyClause.FindStringSubmatch(def); m != nil {
			p.addForeignKey(name, columnList(m[1]), normalizeName(m[2]), columnList(m[3]))
			continue
		}
		if skipDefinition.MatchString(def) {
			p.warn(UnparseableStatement, "%s: skipped %s", name, headline(def))
			continue
		}

		col, ref, ok := parseColumn(def)
		if !ok {
			p.warn(UnparseableStatement, "%s: %s", name, headline(def))
			continue
		}
		table.Columns = append(table.Columns, col)
		if ref != nil {
			p.addForeignKey(name, []string{col.Name}, ref.toTable, columnList(ref.toColumn))
		}
	}

	for i := range table.Columns {
		c := &table.Columns[i]
		if contains(pk, c.Name) {
			c.IsPrimaryKey, c.IsNotNull, c.IsUnique = true, true, true
		}
		if contains(unique, c.Name) {
			c.IsUnique = true
		}
	}
	p.tables = append(p.tables, table)
}

// alterTable records every FOREIGN KEY clause of an ALTER TABLE and reports
// whether there was at least one.
func (p *parser) alterTable(table, rest string) bool {
	found := false
	for _, clause := range splitTopLevel(rest, ',') {
		m := foreignKeyClause.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		found = true
		p.addForeignKey(table, columnList(m[1]), normalizeName(m[2]), columnList(m[3]))
	}
	return found
}

func (p *parser) addForeignKey(fromTable string, from []string, toTable string, to []string) {
	if len(from) != 1 || len(to) > 1 {
		p.warn(CompositeKey, "%s(%s) -> %s(%s)", fromTable, strings.Join(from, ", "), toTable, strings.Join(to, ", "))
		return
	}
	fk := foreignKey{fromTable: fromTable, fromColumn: from[0], toTable: toTable}
	if len(to) == 1 {
		fk.toColumn = to[0]
	}
	p.fks = append(p.fks, fk)
}

// parseColumn reads "name type [constraints...]". The returned foreignKey
// only carries the target of an inline REFERENCES; toColumn holds the raw list.
func parseColumn(def string) (schema.Column, *foreignKey, bool) {
	m := columnHead.FindStringSubmatch(def)
	if m == nil {
		return schema.Column{}, nil, false
	}
	name := strings.ToLower(strings.TrimSpace(unquote(m[1])))
	if name == "" {
		return schema.Column{}, nil, false
	}

	rest := m[2]
	rawType := rest
	if loc := typeEnd.FindStringIndex(rest); loc != nil {
		rawType = rest[:loc[0]]
	}

	col := schema.Column{
		ID:        schema.NewID(),
		Name:      name,
		Type:      schema.NormalizeType(rawType),
		IsNotNull: notNullFlag.MatchString(rest),
		IsUnique:  uniqueFlag.MatchString(rest),
	}
	if primaryKeyFlag.MatchString(rest) {
		col.IsPrimaryKey, col.IsNotNull, col.IsUnique = true, true, true
	}

	var ref *foreignKey
	if rm := inlineReference.FindStringSubmatch(rest); rm != nil {
		ref = &foreignKey{toTable: normalizeName(rm[1]), toColumn: rm[2]}
	}
	return col, ref, true
}

// result resolves references by name and positions the tables.
func (p *parser) result(grid schema.Grid) Result {
	grid.Arrange(p.tables)

	tables := p.tables
	if tables == nil {
		tables = []schema.Table{}
	}
	byName := make(map[string]int, len(tables))
	for i, t := range tables {
		if _, ok := byName[t.Name]; !ok {
			byName[t.Name] = i
		}
	}

	relations := []schema.Relation{}
	seen := make(map[[4]string]bool)
	for _, fk := range p.fks {
		from, to, ok := resolve(tables, byName, fk)
		if !ok {
			p.warn(UnresolvedReference, "%s", fk)
			continue
		}
		key := [4]string{from.table.ID, from.column.ID, to.table.ID, to.column.ID}
		if seen[key] {
			continue
		}
		seen[key] = true

		typ := schema.OneToMany
		if from.column.IsUnique {
			typ = schema.OneToOne
		}
		relations = append(relations, schema.Relation{
			ID:           schema.NewID(),
			FromTableID:  from.table.ID,
			FromColumnID: from.column.ID,
			ToTableID:    to.table.ID,
			ToColumnID:   to.column.ID,
			Type:         typ,
		})
	}

	return Result{
		Schema:   schema.DatabaseSchema{Tables: tables, Relations: relations},
		Warnings: p.warnings,
	}
}

type endpoint struct {
	table  schema.Table
	column schema.Column
}

func resolve(tables []schema.Table, byName map[string]int, fk foreignKey) (from, to endpoint, ok bool) {
	fi, ok := byName[fk.fromTable]
	if !ok {
		return from, to, false
	}
	ti, ok := byName[fk.toTable]
	if !ok {
		return from, to, false
	}
	from.table, to.table = tables[fi], tables[ti]

	if from.column, ok = from.table.ColumnByName(fk.fromColumn); !ok {
		return from, to, false
	}
	if fk.toColumn != "" {
		to.column, ok = to.table.ColumnByName(fk.toColumn)
		return from, to, ok
	}
	// REFERENCES without a column list targets the primary key.
	pk := to.table.PrimaryKey()
	if len(pk) != 1 {
		return from, to, false
	}
	to.column = pk[0]
	return from, to, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// headline shortens a statement to its first line for warnings.
func headline(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > 80 {
		line = string(r[:77]) + "..."
	}
	return line
}
