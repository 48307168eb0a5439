package domain

import "strings"

// Product represents a scanned or manually entered food item
type Product struct {
	Barcode     string         `json:"barcode,omitempty"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand,omitempty"`
	Category    string         `json:"category,omitempty"`
	Price       *float64       `json:"price,omitempty"` // nil means price unknown, not free
	ServingSize string         `json:"serving_size,omitempty"`
	Nutrition   NutritionFacts `json:"nutrition"`
}

// NutritionFacts maps nutrient keys to per-serving amounts.
// Keys are not guaranteed complete or canonical: scanned sources label the
// same nutrient differently (e.g. "sugars" vs "total_sugars"), so reads go
// through the alias table.
type NutritionFacts map[string]float64

// nutrientAliases lists the keys each canonical nutrient may appear under
var nutrientAliases = map[string][]string{
	"calories":      {"calories", "energy", "kcal", "energy_kcal"},
	"protein":       {"protein", "proteins"},
	"carbohydrates": {"carbohydrates", "carbs", "carbs_total", "total_carbohydrate"},
	"sugar":         {"sugar", "sugars", "sugar_total", "total_sugars"},
	"fat":           {"fat", "fats", "fat_total", "total_fat"},
	"saturated_fat": {"saturated_fat", "sat_fat"},
	"sodium":        {"sodium", "salt"},
	"fiber":         {"fiber", "fibre", "dietary_fiber"},
	"cholesterol":   {"cholesterol"},
}

// Lookup resolves a canonical nutrient name through the alias table.
// The boolean reports whether any aliased key was present, so callers can
// distinguish "absent" from a true zero.
func (n NutritionFacts) Lookup(name string) (float64, bool) {
	if len(n) == 0 {
		return 0, false
	}
	aliases, ok := nutrientAliases[name]
	if !ok {
		aliases = []string{name}
	}
	for _, key := range aliases {
		if v, ok := n[key]; ok {
			return v, true
		}
	}
	return 0, false
}

// Value returns the nutrient amount, or zero when absent
func (n NutritionFacts) Value(name string) float64 {
	v, _ := n.Lookup(name)
	return v
}

// IsEmpty reports whether no nutrition information is known
func (n NutritionFacts) IsEmpty() bool {
	return len(n) == 0
}

// DisplayName returns the product name, or a generic placeholder when unknown
func (p *Product) DisplayName() string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return "this product"
	}
	return p.Name
}

// Identity extracts the fields echoed back in an Evaluation
func (p *Product) Identity() ProductIdentity {
	return ProductIdentity{
		Barcode:  p.Barcode,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    p.Price,
	}
}
