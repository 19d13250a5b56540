package schema

import (
	"encoding/json"
	"testing"
)

func TestNormalizeType(t *testing.T) {
	var tests = []struct {
		raw  string
		want ColumnType
	}{
		{"VARCHAR(255)", Varchar},
		{"character varying(20)", Varchar},
		{"CHAR(2)", Varchar},
		{"char", Char},
		{"BIGINT", Integer},
		{"int", Integer},
		{"INT(11) unsigned", Integer},
		{"smallint", Integer},
		{"NUMERIC(10,2)", DoublePrecision},
		{"decimal(8, 3)", DoublePrecision},
		{"float8", DoublePrecision},
		{"double   precision", DoublePrecision},
		{"MONEY", Text},
		{"", Text},
		{"uuid", UUID},
		{"bigserial", Serial},
		{"SERIAL", Serial},
		{"bool", Boolean},
		{"BOOLEAN", Boolean},
		{"timestamp with time zone", Timestamp},
		{"TIMESTAMPTZ", Timestamptz},
		{"time without time zone", Time},
		{"interval day to second", Interval},
		{"datetime", Date},
		{"JSONB", JSONB},
		{"json", JSON},
		{"float4", Real},
		{"real", Real},
		{"enum('a','b')", Enum},
		{"text", Text},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeType(tt.raw)
			if got != tt.want {
				t.Errorf("\ngot type %q, wanted %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeTypeAlwaysInVocabulary(t *testing.T) {
	for _, raw := range []string{"geometry", "tsvector", "bytea", "xml", "int4range", "citext"} {
		if got := NormalizeType(raw); !got.Valid() {
			t.Errorf("\n%q normalized to %q which is not in the vocabulary", raw, got)
		}
	}
}

func TestColumnTypeUnmarshal(t *testing.T) {
	var tests = []struct {
		in   string
		want ColumnType
	}{
		{`"bigint"`, Bigint},
		{`"numeric"`, Numeric},
		{`"BIGINT"`, Integer},
		{`"varchar(40)"`, Varchar},
		{`"money"`, Text},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got ColumnType
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("\ngot unexpected error: \"%v\"", err)
			}
			if got != tt.want {
				t.Errorf("\ngot type %q, wanted %q", got, tt.want)
			}
		})
	}
}
