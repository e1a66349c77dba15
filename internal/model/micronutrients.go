package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Micronutrients is the closed set of nutrient codes the system tracks.
// Keeping it a struct instead of a string-keyed map means the aggregation
// sums and the RDA table cover every code by construction.
type Micronutrients struct {
	VitaminC   float64 `json:"vitamin_c,omitempty"`
	Iron       float64 `json:"iron,omitempty"`
	Calcium    float64 `json:"calcium,omitempty"`
	VitaminD   float64 `json:"vitamin_d,omitempty"`
	VitaminA   float64 `json:"vitamin_a,omitempty"`
	VitaminB12 float64 `json:"vitamin_b12,omitempty"`
	VitaminB6  float64 `json:"vitamin_b6,omitempty"`
	Folate     float64 `json:"folate,omitempty"`
	Magnesium  float64 `json:"magnesium,omitempty"`
	Potassium  float64 `json:"potassium,omitempty"`
	Zinc       float64 `json:"zinc,omitempty"`
	Selenium   float64 `json:"selenium,omitempty"`
	Copper     float64 `json:"copper,omitempty"`
	Manganese  float64 `json:"manganese,omitempty"`
	Iodine     float64 `json:"iodine,omitempty"`
}

// NutrientCodes lists every tracked code in a stable order.
var NutrientCodes = []string{
	"vitamin_c",
	"iron",
	"calcium",
	"vitamin_d",
	"vitamin_a",
	"vitamin_b12",
	"vitamin_b6",
	"folate",
	"magnesium",
	"potassium",
	"zinc",
	"selenium",
	"copper",
	"manganese",
	"iodine",
}

func (m *Micronutrients) Add(o Micronutrients) {
	m.VitaminC += o.VitaminC
	m.Iron += o.Iron
	m.Calcium += o.Calcium
	m.VitaminD += o.VitaminD
	m.VitaminA += o.VitaminA
	m.VitaminB12 += o.VitaminB12
	m.VitaminB6 += o.VitaminB6
	m.Folate += o.Folate
	m.Magnesium += o.Magnesium
	m.Potassium += o.Potassium
	m.Zinc += o.Zinc
	m.Selenium += o.Selenium
	m.Copper += o.Copper
	m.Manganese += o.Manganese
	m.Iodine += o.Iodine
}

func (m Micronutrients) IsZero() bool {
	return m == Micronutrients{}
}

// Set assigns the amount for a nutrient code. Unknown codes are an error so
// typos never silently vanish into an open map.
func (m *Micronutrients) Set(code string, amount float64) error {
	switch strings.TrimSpace(strings.ToLower(code)) {
	case "vitamin_c":
		m.VitaminC = amount
	case "iron":
		m.Iron = amount
	case "calcium":
		m.Calcium = amount
	case "vitamin_d":
		m.VitaminD = amount
	case "vitamin_a":
		m.VitaminA = amount
	case "vitamin_b12":
		m.VitaminB12 = amount
	case "vitamin_b6":
		m.VitaminB6 = amount
	case "folate":
		m.Folate = amount
	case "magnesium":
		m.Magnesium = amount
	case "potassium":
		m.Potassium = amount
	case "zinc":
		m.Zinc = amount
	case "selenium":
		m.Selenium = amount
	case "copper":
		m.Copper = amount
	case "manganese":
		m.Manganese = amount
	case "iodine":
		m.Iodine = amount
	default:
		return fmt.Errorf("unknown nutrient code %q", code)
	}
	return nil
}

// EncodeMicronutrients renders m as the JSON text stored in the database.
// An all-zero value encodes as the empty string.
func EncodeMicronutrients(m Micronutrients) (string, error) {
	if m.IsZero() {
		return "", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal micronutrients: %w", err)
	}
	return string(raw), nil
}

// DecodeMicronutrients parses a stored JSON text column; the empty string
// decodes to the zero value.
func DecodeMicronutrients(value string) (Micronutrients, error) {
	var m Micronutrients
	value = strings.TrimSpace(value)
	if value == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(value), &m); err != nil {
		return Micronutrients{}, fmt.Errorf("unmarshal micronutrients: %w", err)
	}
	return m, nil
}
