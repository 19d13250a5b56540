package ddl

import (
	"regexp"
	"strings"
)

// identPattern matches one identifier in any of the supported quoting styles.
const identPattern = `(?:"(?:[^"]|"")+"|` + "`(?:[^`]|``)+`" + `|\[[^\]]+\]|[\p{L}\p{N}_$]+)`

// qualifiedPattern matches a dotted name such as public."Users".
const qualifiedPattern = identPattern + `(?:\s*\.\s*` + identPattern + `)*`

var identRe = regexp.MustCompile(identPattern)

// unquote strips one level of "", `` or [] quoting.
func unquote(id string) string {
	if len(id) < 2 {
		return id
	}
	first, last := id[0], id[len(id)-1]
	switch {
	case first == '"' && last == '"':
		return strings.ReplaceAll(id[1:len(id)-1], `""`, `"`)
	case first == '`' && last == '`':
		return strings.ReplaceAll(id[1:len(id)-1], "``", "`")
	case first == '[' && last == ']':
		return id[1 : len(id)-1]
	}
	return id
}

// normalizeName turns a possibly qualified, possibly quoted name into the
// lower-case unqualified form used for lookups.
func normalizeName(raw string) string {
	parts := identRe.FindAllString(raw, -1)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(unquote(parts[len(parts)-1])))
}

// columnList parses "(a, "B", c DESC)" contents into normalized column names.
func columnList(list string) []string {
	var cols []string
	for _, entry := range splitTopLevel(list, ',') {
		id := identRe.FindString(entry)
		if id == "" {
			continue
		}
		if name := strings.ToLower(strings.TrimSpace(unquote(id))); name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}
