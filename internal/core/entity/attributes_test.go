package entity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAttributesScan(t *testing.T) {
	var a Attributes
	if err := a.Scan([]byte(`{"barcode":"4600000000017","weight_kg":0.35,"fragile":true}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if got := a.GetString("barcode"); got != "4600000000017" {
		t.Errorf("barcode = %q", got)
	}
	if !a.GetBool("fragile") {
		t.Error("fragile should be true")
	}
	if !a.Has("weight_kg") || a.Has("missing") {
		t.Error("Has misreports keys")
	}
}

func TestAttributesScan_PreservesDecimalPrecision(t *testing.T) {
	// A float64 decode would round this value; json.Number keeps the
	// source digits.
	var a Attributes
	if err := a.Scan([]byte(`{"price":123456789012345678.99,"qty":42}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := decimal.RequireFromString("123456789012345678.99")
	if got := a.GetDecimal("price"); !got.Equal(want) {
		t.Errorf("price = %s, want %s", got, want)
	}
	if got := a.GetInt("qty"); got != 42 {
		t.Errorf("qty = %d, want 42", got)
	}
}

func TestAttributesScan_Nil(t *testing.T) {
	var a Attributes
	if err := a.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if a != nil {
		t.Errorf("expected nil attributes, got %v", a)
	}
	if a.GetString("any") != "" || a.GetInt("any") != 0 {
		t.Error("nil attributes must read as zero values")
	}
}

func TestAttributesValue(t *testing.T) {
	var a Attributes
	a.Set("barcode", "4600000000024")
	a.Set("stock", 7)

	v, err := a.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back Attributes
	if err := back.Scan(v); err != nil {
		t.Fatalf("scan back: %v", err)
	}
	if back.GetString("barcode") != "4600000000024" || back.GetInt("stock") != 7 {
		t.Errorf("round trip mismatch: %v", back)
	}

	var empty Attributes
	if v, err := empty.Value(); err != nil || v != nil {
		t.Errorf("nil attributes must store as NULL, got %v, %v", v, err)
	}
}

func TestAttributesClone(t *testing.T) {
	var a Attributes
	a.Set("k", "v1")

	clone := a.Clone()
	clone.Set("k", "v2")

	if a.GetString("k") != "v1" {
		t.Error("mutating the clone changed the original")
	}
}
