package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestStringFieldsSkipsEmptyEntries(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  ", Value: "ignored"},
		StringField{Key: "kept", Value: "  value  "},
		StringField{Key: "empty", Value: "   "},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "kept" {
		t.Fatalf("unexpected field key: %q", fields[0].Key)
	}
}

func TestPairFields(t *testing.T) {
	fields := PairFields("c1", "j1")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldCandidate || fields[1].Key != FieldJob {
		t.Fatalf("unexpected keys: %q %q", fields[0].Key, fields[1].Key)
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	logger := WithFields(nil, zap.String("k", "v"))
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("  abcdef  ", 3); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateForLog("abc", 10); got != "abc" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	if got := TruncateForLog("abc", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
