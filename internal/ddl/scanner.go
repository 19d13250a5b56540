package ddl

import "strings"

// scanner tracks parenthesis depth and quoted spans while walking SQL text.
// A quote character opens or closes a span unless it follows a backslash.
type scanner struct {
	depth int
	quote rune
	prev  rune
}

// step consumes r and reports whether it is structural, i.e. neither inside
// a quoted span nor a quote delimiter itself.
func (s *scanner) step(r rune) bool {
	escaped := s.prev == '\\'
	s.prev = r
	if s.quote != 0 {
		if r == s.quote && !escaped {
			s.quote = 0
		}
		return false
	}
	switch r {
	case '\'', '"', '`':
		if escaped {
			return true
		}
		s.quote = r
		return false
	case '(':
		s.depth++
	case ')':
		if s.depth > 0 {
			s.depth--
		}
	}
	return true
}

// splitTopLevel splits text on sep where sep is outside quotes and at
// parenthesis depth zero. Parts are trimmed; empty parts are dropped.
func splitTopLevel(text string, sep rune) []string {
	var (
		parts []string
		sc    scanner
		start int
	)
	for i, r := range text {
		if sc.step(r) && r == sep && sc.depth == 0 {
			parts = appendPart(parts, text[start:i])
			start = i + len(string(r))
		}
	}
	return appendPart(parts, text[start:])
}

func appendPart(parts []string, p string) []string {
	if p = strings.TrimSpace(p); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// closingParen returns the index of the parenthesis closing the one at open,
// or -1 when text is unbalanced.
func closingParen(text string, open int) int {
	if open < 0 || open >= len(text) || text[open] != '(' {
		return -1
	}
	var sc scanner
	for i, r := range text[open:] {
		if sc.step(r) && r == ')' && sc.depth == 0 {
			return open + i
		}
	}
	return -1
}

// splitStatements cuts a script on every semicolon. Semicolons inside
// literals are not special.
func splitStatements(text string) []string {
	var stmts []string
	for _, s := range strings.Split(text, ";") {
		stmts = appendPart(stmts, s)
	}
	return stmts
}
