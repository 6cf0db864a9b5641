package models

import (
	"encoding/json"
	"testing"
)

func TestTextFalsyValues(t *testing.T) {
	e := RawServerEntry{
		"empty":  "",
		"zero":   json.Number("0"),
		"zerof":  json.Number("0.0"),
		"no":     false,
		"null":   nil,
		"name":   "room",
		"count":  json.Number("12"),
		"yes":    true,
		"float":  float64(3),
		"nested": []any{"x"},
	}

	tests := map[string]string{
		"empty":   NotAvailable,
		"zero":    NotAvailable,
		"zerof":   NotAvailable,
		"no":      NotAvailable,
		"null":    NotAvailable,
		"missing": NotAvailable,
		"nested":  NotAvailable,
		"name":    "room",
		"count":   "12",
		"yes":     "true",
		"float":   "3",
	}

	for key, want := range tests {
		if got := e.Text(key); got != want {
			t.Errorf("Text(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestNewSimpleInfo(t *testing.T) {
	e := RawServerEntry{
		"__rowId":        "KU_abc",
		"name":           "Wilson's world",
		"intent":         "survival",
		"mode":           "endless",
		"season":         "autumn",
		"maxconnections": json.Number("6"),
		"connected":      json.Number("0"),
		"v":              json.Number("600000"),
		"platform":       json.Number("1"),
	}

	got := NewSimpleInfo(e)
	want := SimpleInfo{
		Name:           "Wilson's world",
		Mode:           "survival",
		RowID:          "KU_abc",
		Season:         "autumn",
		MaxConnections: "6",
		Connected:      NotAvailable,
		Version:        "600000",
		Platform:       "1",
	}
	if got != want {
		t.Fatalf("NewSimpleInfo = %+v, want %+v", got, want)
	}
}

func TestRawKeepsZero(t *testing.T) {
	e := RawServerEntry{"connected": json.Number("0"), "dedicated": false}

	if got := e.Raw("connected"); got != "0" {
		t.Errorf("Raw(connected) = %q, want 0", got)
	}
	if got := e.Raw("dedicated"); got != "false" {
		t.Errorf("Raw(dedicated) = %q, want false", got)
	}
	if got := e.Raw("missing"); got != "" {
		t.Errorf("Raw(missing) = %q, want empty", got)
	}
}
