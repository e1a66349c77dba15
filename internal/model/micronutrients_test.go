package model_test

import (
	"testing"

	"github.com/nutrilog/nutrilog/internal/model"
)

func TestMicronutrientsSetCoversEveryCode(t *testing.T) {
	t.Parallel()

	var m model.Micronutrients
	for _, code := range model.NutrientCodes {
		if err := m.Set(code, 1); err != nil {
			t.Fatalf("set %s: %v", code, err)
		}
	}
	if m.IsZero() {
		t.Fatal("setting every code should leave no zero value")
	}
	if err := m.Set("unobtainium", 1); err == nil {
		t.Fatal("expected error for unknown code")
	}
}

func TestMicronutrientsAdd(t *testing.T) {
	t.Parallel()

	a := model.Micronutrients{VitaminC: 10, Iron: 2, Iodine: 0.5}
	a.Add(model.Micronutrients{VitaminC: 5, Folate: 100})
	if a.VitaminC != 15 || a.Iron != 2 || a.Folate != 100 || a.Iodine != 0.5 {
		t.Fatalf("unexpected sums: %+v", a)
	}
}

func TestEncodeMicronutrientsZeroIsEmpty(t *testing.T) {
	t.Parallel()

	encoded, err := model.EncodeMicronutrients(model.Micronutrients{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != "" {
		t.Fatalf("zero value should encode to empty string, got %q", encoded)
	}

	decoded, err := model.DecodeMicronutrients("")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if !decoded.IsZero() {
		t.Fatalf("empty string should decode to zero value, got %+v", decoded)
	}
}

func TestEncodeDecodeMicronutrientsRoundTrip(t *testing.T) {
	t.Parallel()

	in := model.Micronutrients{VitaminB12: 2.4, Selenium: 55, Manganese: 2.3}
	encoded, err := model.EncodeMicronutrients(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := model.DecodeMicronutrients(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestDecodeMicronutrientsRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := model.DecodeMicronutrients("{not json"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
