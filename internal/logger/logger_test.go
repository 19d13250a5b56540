package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Debug("hidden %d", 1)
	Info("table %s", "users")
	Warn("skipped %d statements", 2)
	Error("query failed: %v", "boom")

	var tests = []struct {
		level zapcore.Level
		msg   string
	}{
		{zapcore.InfoLevel, "table users"},
		{zapcore.WarnLevel, "skipped 2 statements"},
		{zapcore.ErrorLevel, "query failed: boom"},
	}

	entries := logs.All()
	if len(entries) != len(tests) {
		t.Fatalf("\ngot %d entries, wanted %d", len(entries), len(tests))
	}
	for i, tt := range tests {
		if entries[i].Level != tt.level || entries[i].Message != tt.msg {
			t.Errorf("\ngot %v %q, wanted %v %q", entries[i].Level, entries[i].Message, tt.level, tt.msg)
		}
	}
}

func TestInit(t *testing.T) {
	for _, debug := range []bool{true, false} {
		if err := Init(debug); err != nil {
			t.Errorf("\ngot unexpected error: \"%v\"", err)
		}
	}
	Set(zap.NewNop())
}
