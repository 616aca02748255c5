package dashboard_repo

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestResultRowText(t *testing.T) {
	row := resultRow{values: map[string]any{
		"name": "ООО Ромашка",
		"day":  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		"ref":  [16]byte{0x01, 0x8f, 0x2c, 0x3a, 0, 0, 0x70, 0x00, 0x80, 0, 0, 0, 0, 0, 0, 0x01},
		"qty":  int64(5),
	}}

	if got, ok := row.Text("name"); !ok || got != "ООО Ромашка" {
		t.Errorf("Text(name) = %q, %v", got, ok)
	}
	// Timestamps collapse to the bare date the grouping columns use.
	if got, ok := row.Text("day"); !ok || got != "2024-03-15" {
		t.Errorf("Text(day) = %q, %v", got, ok)
	}
	if got, ok := row.Text("ref"); !ok || got != "018f2c3a-0000-7000-8000-000000000001" {
		t.Errorf("Text(ref) = %q, %v", got, ok)
	}
	if _, ok := row.Text("qty"); ok {
		t.Error("Text over int64 should miss")
	}
	if _, ok := row.Text("absent"); ok {
		t.Error("Text over missing column should miss")
	}
}

func TestResultRowInt(t *testing.T) {
	row := resultRow{values: map[string]any{
		"big":   int64(9000000000),
		"med":   int32(42),
		"small": int16(7),
		"text":  "12",
	}}

	tests := []struct {
		column string
		want   int64
		ok     bool
	}{
		{"big", 9000000000, true},
		{"med", 42, true},
		{"small", 7, true},
		{"text", 0, false},
		{"absent", 0, false},
	}
	for _, tt := range tests {
		got, ok := row.Int(tt.column)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Int(%s) = %d, %v, want %d, %v", tt.column, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResultRowFloat(t *testing.T) {
	row := resultRow{values: map[string]any{
		"f64":     float64(1.5),
		"f32":     float32(2.5),
		"i64":     int64(3),
		"i32":     int32(4),
		"numeric": pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true},
		"nullnum": pgtype.Numeric{},
		"text":    "1.5",
	}}

	tests := []struct {
		column string
		want   float64
		ok     bool
	}{
		{"f64", 1.5, true},
		{"f32", 2.5, true},
		{"i64", 3, true},
		{"i32", 4, true},
		{"numeric", 123.45, true},
		{"nullnum", 0, false},
		{"text", 0, false},
	}
	for _, tt := range tests {
		got, ok := row.Float(tt.column)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Float(%s) = %v, %v, want %v, %v", tt.column, got, ok, tt.want, tt.ok)
		}
	}
}
