package openfoodfacts

import (
	"log"

	"github.com/nutriscan/backend/internal/domain"
)

// mockProducts is the built-in table of common US retail items served when
// the API is disabled or unreachable. Unlike live OFF records these carry
// retail prices, which keeps the price evaluator demonstrable offline.
var mockProducts = map[string]*domain.Product{
	"012000161551": {
		Barcode:     "012000161551",
		Name:        "Coca-Cola Classic",
		Brand:       "Coca-Cola",
		Category:    "beverages",
		Price:       floatPtr(1.99),
		ServingSize: "20 fl oz",
		Nutrition: domain.NutritionFacts{
			"calories":      240,
			"protein":       0,
			"carbohydrates": 65,
			"sugar":         65,
			"fat":           0,
			"saturated_fat": 0,
			"sodium":        75,
			"fiber":         0,
		},
	},
	"078000113464": {
		Barcode:     "078000113464",
		Name:        "Gatorade Thirst Quencher Fruit Punch",
		Brand:       "Gatorade",
		Category:    "beverages",
		Price:       floatPtr(1.49),
		ServingSize: "20 fl oz",
		Nutrition: domain.NutritionFacts{
			"calories":      140,
			"protein":       0,
			"carbohydrates": 36,
			"sugar":         34,
			"fat":           0,
			"saturated_fat": 0,
			"sodium":        270,
			"fiber":         0,
		},
	},
	"028400047685": {
		Barcode:     "028400047685",
		Name:        "Cheez-It Original Baked Snack Crackers",
		Brand:       "Cheez-It",
		Category:    "snacks",
		Price:       floatPtr(3.99),
		ServingSize: "12.4 oz",
		Nutrition: domain.NutritionFacts{
			"calories":      150,
			"protein":       3,
			"carbohydrates": 17,
			"sugar":         0,
			"fat":           8,
			"saturated_fat": 2,
			"sodium":        230,
			"fiber":         1,
		},
	},
	"722252601025": {
		Barcode:     "722252601025",
		Name:        "Quest Protein Bar - Chocolate Chip Cookie Dough",
		Brand:       "Quest Nutrition",
		Category:    "health_food",
		Price:       floatPtr(2.49),
		ServingSize: "2.12 oz (60g)",
		Nutrition: domain.NutritionFacts{
			"calories":      200,
			"protein":       21,
			"carbohydrates": 22,
			"sugar":         1,
			"fat":           8,
			"saturated_fat": 3,
			"sodium":        250,
			"fiber":         14,
		},
	},
	"016000275683": {
		Barcode:     "016000275683",
		Name:        "Cheerios Cereal",
		Brand:       "General Mills",
		Category:    "breakfast",
		Price:       floatPtr(4.99),
		ServingSize: "18 oz",
		Nutrition: domain.NutritionFacts{
			"calories":      110,
			"protein":       3,
			"carbohydrates": 22,
			"sugar":         2,
			"fat":           2,
			"saturated_fat": 0,
			"sodium":        160,
			"fiber":         3,
		},
	},
}

// mockLookup serves a copy from the built-in table
func (c *Client) mockLookup(barcode string) (*domain.Product, error) {
	product, ok := mockProducts[barcode]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	log.Printf("[OFF] serving mock product for barcode %s", barcode)
	return copyProduct(product), nil
}

// copyProduct clones a product so callers can't mutate the mock table
func copyProduct(product *domain.Product) *domain.Product {
	clone := *product
	if product.Price != nil {
		price := *product.Price
		clone.Price = &price
	}
	clone.Nutrition = make(domain.NutritionFacts, len(product.Nutrition))
	for key, value := range product.Nutrition {
		clone.Nutrition[key] = value
	}
	return &clone
}

func floatPtr(v float64) *float64 {
	return &v
}
