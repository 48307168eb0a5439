package usecase

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// categoryAverages holds per-serving average prices in USD by category
var categoryAverages = map[string]float64{
	"snacks":      0.20,
	"beverages":   0.12,
	"dairy":       0.30,
	"cereals":     0.25,
	"breakfast":   0.25,
	"frozen":      0.35,
	"health_food": 0.50,
}

// defaultCategoryAverage covers unknown or missing categories
const defaultCategoryAverage = 0.25

// Rating thresholds as percent difference from the category average
const (
	excellentDealMaxPercent = -20.0
	goodPriceMaxPercent     = -5.0
	fairPriceMaxPercent     = 15.0
)

// PriceConfig holds configuration for the price evaluator
type PriceConfig struct {
	// CategoryAverages overrides the built-in benchmark table when set
	CategoryAverages map[string]float64
	// DefaultAverage is used for categories missing from the table
	DefaultAverage float64
}

// PriceEvaluator rates value for money against category price benchmarks.
// Pure computation: no generation call, so no failure path beyond
// missing-data handling.
type PriceEvaluator struct {
	averages       map[string]float64
	defaultAverage float64
}

// NewPriceEvaluator creates a price evaluator with the given benchmarks
func NewPriceEvaluator(config PriceConfig) *PriceEvaluator {
	averages := config.CategoryAverages
	if averages == nil {
		averages = categoryAverages
	}

	defaultAverage := config.DefaultAverage
	if defaultAverage <= 0 {
		defaultAverage = defaultCategoryAverage
	}

	return &PriceEvaluator{
		averages:       averages,
		defaultAverage: defaultAverage,
	}
}

// Evaluate rates the product's price against its category average.
// A product without a price yields a neutral Unknown result rather than a
// fabricated comparison.
func (e *PriceEvaluator) Evaluate(ctx context.Context, product *domain.Product) *domain.PriceResult {
	average := e.categoryAverage(product.Category)

	if product.Price == nil {
		return &domain.PriceResult{
			Rating:          domain.PriceUnknown,
			IsGoodDeal:      false,
			CategoryAverage: average,
			Summary:         fmt.Sprintf("I couldn't find a price for %s, so I can't rate its value right now.", product.DisplayName()),
		}
	}

	price := *product.Price
	comparison := (price - average) / average * 100
	rating := ratingForComparison(comparison)

	return &domain.PriceResult{
		Rating:            rating,
		IsGoodDeal:        rating == domain.PriceExcellentDeal || rating == domain.PriceGoodPrice,
		UnitPrice:         unitPrice(price, product.ServingSize),
		CategoryAverage:   average,
		ComparisonPercent: comparison,
		Summary:           priceSummary(product, price, comparison, rating),
	}
}

// ratingForComparison maps the signed percent difference to a rating.
// At or below -20 is excellent, (-20,-5] good, (-5,+15] fair, above +15
// expensive.
func ratingForComparison(percent float64) string {
	switch {
	case percent <= excellentDealMaxPercent:
		return domain.PriceExcellentDeal
	case percent <= goodPriceMaxPercent:
		return domain.PriceGoodPrice
	case percent <= fairPriceMaxPercent:
		return domain.PriceFairPrice
	default:
		return domain.PriceExpensive
	}
}

// categoryAverage resolves the benchmark for a category, normalizing case,
// spaces and hyphens so "Health Food" matches "health_food"
func (e *PriceEvaluator) categoryAverage(category string) float64 {
	key := strings.ToLower(strings.TrimSpace(category))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if avg, ok := e.averages[key]; ok && avg > 0 {
		return avg
	}
	return e.defaultAverage
}

// servingQuantityRegex matches a quantity with unit inside a serving size
// string, e.g. "60 g", "12oz", "355 ml"
var servingQuantityRegex = regexp.MustCompile(`(?i)([\d.]+)\s*(g|grams?|ml|fl\s*oz|oz)\b`)

// unitPrice derives a price per 100 g or 100 ml when the serving size
// carries a parseable quantity; nil otherwise
func unitPrice(price float64, servingSize string) *float64 {
	match := servingQuantityRegex.FindStringSubmatch(servingSize)
	if match == nil {
		return nil
	}

	qty, err := strconv.ParseFloat(match[1], 64)
	if err != nil || qty <= 0 {
		return nil
	}

	unit := strings.ToLower(strings.Join(strings.Fields(match[2]), ""))
	switch unit {
	case "oz":
		qty *= 28.35
	case "floz":
		qty *= 29.57
	}

	per100 := math.Round(price/qty*100*100) / 100
	return &per100
}

// priceSummary renders the rating explanation from fixed templates
func priceSummary(product *domain.Product, price, comparison float64, rating string) string {
	switch rating {
	case domain.PriceExcellentDeal:
		return fmt.Sprintf("Great news! This %s is an excellent deal, priced %.0f%% below the category average. Fantastic value for money!",
			product.DisplayName(), math.Abs(comparison))
	case domain.PriceGoodPrice:
		return fmt.Sprintf("The %s is reasonably priced at $%.2f, offering good value for your money.",
			product.DisplayName(), price)
	case domain.PriceFairPrice:
		direction := "above"
		if comparison < 0 {
			direction = "below"
		}
		return fmt.Sprintf("This product is priced at $%.2f, which is %.0f%% %s the category average. Fair price, though you might find better deals.",
			price, math.Abs(comparison), direction)
	default:
		return fmt.Sprintf("At $%.2f, this %s is priced %.0f%% above the category average. Consider whether the brand premium justifies the cost.",
			price, product.DisplayName(), comparison)
	}
}
