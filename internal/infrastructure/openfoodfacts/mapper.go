package openfoodfacts

import (
	"math"
	"strconv"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// lookupResponse is the envelope of /api/v0/product/{barcode}.json
type lookupResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

// offProduct is the subset of an Open Food Facts record the mapper reads
type offProduct struct {
	Code           string                 `json:"code"`
	ProductName    string                 `json:"product_name"`
	ProductNameEn  string                 `json:"product_name_en"`
	GenericName    string                 `json:"generic_name"`
	Brands         string                 `json:"brands"`
	CategoriesTags []string               `json:"categories_tags"`
	ServingSize    string                 `json:"serving_size"`
	Nutriments     map[string]interface{} `json:"nutriments"`
}

// nutrimentMappings translates Open Food Facts nutriment keys to canonical
// nutrition keys. OFF reports per 100g; max bounds reject implausible
// records.
var nutrimentMappings = []struct {
	target string
	keys   []string
	max    float64
}{
	{"protein", []string{"proteins_100g", "proteins"}, 100},
	{"carbohydrates", []string{"carbohydrates_100g", "carbohydrates"}, 100},
	{"sugar", []string{"sugars_100g", "sugars"}, 100},
	{"fat", []string{"fat_100g", "fat"}, 100},
	{"saturated_fat", []string{"saturated-fat_100g", "saturated-fat"}, 100},
	{"fiber", []string{"fiber_100g", "fiber"}, 100},
	{"sodium", []string{"sodium_100g", "sodium"}, 100},
	{"cholesterol", []string{"cholesterol_100g", "cholesterol"}, 100},
}

// mapProduct converts an Open Food Facts record to a domain product.
// OFF carries no pricing, so Price stays nil.
func mapProduct(barcode string, record *offProduct) *domain.Product {
	nutrition := domain.NutritionFacts{}

	// Calories prefer the kcal field; kJ divided by 4.184 is the fallback
	if v, ok := extractFloat(record.Nutriments, "energy-kcal_100g", "energy-kcal"); ok && plausible(v, 10000) {
		nutrition["calories"] = v
	} else if v, ok := extractFloat(record.Nutriments, "energy-kj_100g", "energy_100g"); ok && plausible(v/4.184, 10000) {
		nutrition["calories"] = math.Round(v / 4.184)
	}

	for _, mapping := range nutrimentMappings {
		v, ok := extractFloat(record.Nutriments, mapping.keys...)
		if !ok || !plausible(v, mapping.max) {
			continue
		}
		// OFF reports sodium in grams; small values get converted to mg
		if mapping.target == "sodium" && v > 0 && v < 10 {
			v *= 1000
		}
		nutrition[mapping.target] = v
	}

	return &domain.Product{
		Barcode:     barcode,
		Name:        productName(record),
		Brand:       firstBrand(record.Brands),
		Category:    cleanCategory(record.CategoriesTags),
		ServingSize: record.ServingSize,
		Nutrition:   nutrition,
	}
}

// productName picks the best available name:
// product_name -> product_name_en -> generic_name
func productName(record *offProduct) string {
	if record.ProductName != "" {
		return record.ProductName
	}
	if record.ProductNameEn != "" {
		return record.ProductNameEn
	}
	return record.GenericName
}

// firstBrand returns the first entry of OFF's comma-separated brand list
func firstBrand(brands string) string {
	if brands == "" {
		return ""
	}
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

// cleanCategory turns a raw category tag like "en:salty-snacks" into a
// short, benchmark-friendly category name
func cleanCategory(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	raw := tags[0]
	if idx := strings.LastIndex(raw, ":"); idx != -1 {
		raw = raw[idx+1:]
	}
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(raw)
	lower := strings.ToLower(strings.TrimSpace(cleaned))

	switch {
	case strings.Contains(lower, "snack"):
		return "snacks"
	case strings.Contains(lower, "beverage"), strings.Contains(lower, "drink"), strings.Contains(lower, "soda"):
		return "beverages"
	case strings.Contains(lower, "dairy"), strings.Contains(lower, "milk"), strings.Contains(lower, "cheese"), strings.Contains(lower, "yogurt"):
		return "dairy"
	case strings.Contains(lower, "cereal"):
		return "cereals"
	case strings.Contains(lower, "breakfast"):
		return "breakfast"
	case strings.Contains(lower, "frozen"):
		return "frozen"
	case strings.Contains(lower, "protein"), strings.Contains(lower, "sports"), strings.Contains(lower, "supplement"):
		return "health_food"
	}

	// Deep taxonomy entries get too specific to be useful
	if len(lower) > 25 {
		return "food"
	}
	return lower
}

// extractFloat coerces a nutriments value to float64, accepting the number
// and string encodings that both appear in the wild
func extractFloat(nutriments map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := nutriments[key]
		if !ok {
			continue
		}
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			return x, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// plausible rejects negative or implausibly large nutriment values
func plausible(v, max float64) bool {
	return v >= 0 && v <= max
}
