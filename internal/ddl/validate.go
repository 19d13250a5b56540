package ddl

import (
	"errors"
	"fmt"
	"regexp"

	pgparser "github.com/auxten/postgresql-parser/pkg/sql/parser"
	"github.com/auxten/postgresql-parser/pkg/sql/sem/tree"
)

var ErrEmptyScript = errors.New("script contains no statements")

// enumType finds the bare ENUM column type the generator emits. PostgreSQL
// reads it as a user-defined type name; pgparser reserves the word.
var enumType = regexp.MustCompile(`(?i)(^|[\s(,])ENUM([\s,);]|$)`)

// Validate parses a script with a full PostgreSQL grammar and accepts only
// CREATE TABLE and ALTER TABLE statements. It is stricter than the importer
// and is used to check generated output.
func Validate(sql string) error {
	stmts, err := pgparser.Parse(enumType.ReplaceAllString(sql, "${1}TEXT${2}"))
	if err != nil {
		return fmt.Errorf("parser error: %w", err)
	}
	if len(stmts) == 0 {
		return ErrEmptyScript
	}
	for i, st := range stmts {
		switch st.AST.(type) {
		case *tree.CreateTable, *tree.AlterTable:
		default:
			return fmt.Errorf("statement %d: unsupported %s", i+1, st.AST.StatementTag())
		}
	}
	return nil
}
