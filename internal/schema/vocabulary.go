package schema

import "strings"

// ColumnType is one member of the fixed column type vocabulary.
type ColumnType string

const (
	UUID            ColumnType = "uuid"
	Integer         ColumnType = "integer"
	Serial          ColumnType = "serial"
	Text            ColumnType = "text"
	Varchar         ColumnType = "varchar"
	Char            ColumnType = "char"
	Boolean         ColumnType = "boolean"
	Timestamp       ColumnType = "timestamp"
	Timestamptz     ColumnType = "timestamptz"
	Date            ColumnType = "date"
	Time            ColumnType = "time"
	Interval        ColumnType = "interval"
	JSON            ColumnType = "json"
	JSONB           ColumnType = "jsonb"
	Real            ColumnType = "real"
	DoublePrecision ColumnType = "double precision"
	Numeric         ColumnType = "numeric"
	Bigint          ColumnType = "bigint"
	Enum            ColumnType = "enum"
)

// Vocabulary lists every column type in display order.
var Vocabulary = []ColumnType{
	UUID, Integer, Serial, Text, Varchar, Char, Boolean, Timestamp, Timestamptz,
	Date, Time, Interval, JSON, JSONB, Real, DoublePrecision, Numeric, Bigint, Enum,
}

// folded are vocabulary members that normalization maps onto a broader type
// instead of keeping as-is.
var folded = map[ColumnType]bool{
	Bigint:  true,
	Numeric: true,
}

// prefixRules are checked in order; the first rule with a matching prefix wins.
var prefixRules = []struct {
	prefixes []string
	typ      ColumnType
}{
	{[]string{"character varying", "varchar", "char"}, Varchar},
	{[]string{"uuid"}, UUID},
	{[]string{"serial", "bigserial", "smallserial"}, Serial},
	{[]string{"interval"}, Interval},
	{[]string{"int", "integer", "bigint", "smallint"}, Integer},
	{[]string{"text"}, Text},
	{[]string{"bool"}, Boolean},
	{[]string{"timestamp"}, Timestamp},
	{[]string{"time"}, Time},
	{[]string{"date"}, Date},
	{[]string{"jsonb"}, JSONB},
	{[]string{"json"}, JSON},
	{[]string{"real", "float4"}, Real},
	{[]string{"double precision", "float8", "decimal", "numeric"}, DoublePrecision},
	{[]string{"enum"}, Enum},
}

// Valid reports whether t is a vocabulary member.
func (t ColumnType) Valid() bool {
	for _, v := range Vocabulary {
		if v == t {
			return true
		}
	}
	return false
}

// NormalizeType maps a raw SQL type such as "VARCHAR(255)" or "character varying"
// onto the vocabulary. Unrecognized types become text.
func NormalizeType(raw string) ColumnType {
	t := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if ct := ColumnType(t); ct.Valid() && !folded[ct] {
		return ct
	}
	for _, rule := range prefixRules {
		for _, p := range rule.prefixes {
			if strings.HasPrefix(t, p) {
				return rule.typ
			}
		}
	}
	return Text
}

// UnmarshalText keeps exact vocabulary members and normalizes anything else,
// so decoded documents always satisfy the vocabulary invariant.
func (t *ColumnType) UnmarshalText(b []byte) error {
	ct := ColumnType(strings.TrimSpace(string(b)))
	if ct.Valid() {
		*t = ct
		return nil
	}
	*t = NormalizeType(string(b))
	return nil
}
