package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/nutriscan/backend/internal/domain"
)

// HealthEvaluator scores how well a product's nutrition aligns with the
// user's health goals. It never fails: generation errors and unusable
// responses both degrade to a deterministic rule-based analysis, so the
// orchestrator always receives a complete result.
type HealthEvaluator struct {
	generator domain.TextGenerator
}

// NewHealthEvaluator creates a health evaluator backed by the given generator
func NewHealthEvaluator(generator domain.TextGenerator) *HealthEvaluator {
	return &HealthEvaluator{generator: generator}
}

// Evaluate produces the health analysis for a product/profile pair
func (e *HealthEvaluator) Evaluate(ctx context.Context, product *domain.Product, profile *domain.UserProfile) *domain.HealthResult {
	if product.Nutrition.IsEmpty() {
		return noNutritionHealthResult()
	}

	text, err := e.generator.Generate(ctx, buildHealthPrompt(product, profile), true)
	if err != nil {
		log.Printf("[HEALTH] generation failed, using fallback: %v", err)
		return healthFallback(product)
	}

	result, err := parseHealthResponse(text)
	if err != nil {
		log.Printf("[HEALTH] unusable response, using fallback: %v", err)
		return healthFallback(product)
	}

	return result
}

// healthFallback derives a rule-based analysis from nutrient thresholds.
// Only nutrients actually present in the facts adjust the score, so unknown
// values never masquerade as zeros.
func healthFallback(product *domain.Product) *domain.HealthResult {
	nutrition := product.Nutrition
	score := 50
	var pros, cons []string

	if protein, ok := nutrition.Lookup("protein"); ok {
		if protein >= 15 {
			pros = append(pros, fmt.Sprintf("High protein content (%sg)", formatAmount(protein)))
			score += 10
		} else if protein >= 10 {
			pros = append(pros, fmt.Sprintf("Good protein content (%sg)", formatAmount(protein)))
			score += 5
		}
	}

	if sugar, ok := nutrition.Lookup("sugar"); ok {
		if sugar <= 5 {
			pros = append(pros, fmt.Sprintf("Low sugar (%sg)", formatAmount(sugar)))
			score += 10
		} else if sugar > 20 {
			cons = append(cons, fmt.Sprintf("High sugar content (%sg)", formatAmount(sugar)))
			score -= 10
		}
	}

	if fiber, ok := nutrition.Lookup("fiber"); ok && fiber >= 5 {
		pros = append(pros, fmt.Sprintf("Good fiber content (%sg)", formatAmount(fiber)))
		score += 10
	}

	if sodium, ok := nutrition.Lookup("sodium"); ok && sodium > 400 {
		cons = append(cons, fmt.Sprintf("High sodium (%smg)", formatAmount(sodium)))
		score -= 10
	}

	calories := nutrition.Value("calories")
	if calories > 300 {
		cons = append(cons, fmt.Sprintf("Calorie dense (%s kcal per serving)", formatAmount(calories)))
		score -= 5
	}

	if len(pros) == 0 {
		pros = append(pros, "Contains essential nutrients")
	}
	if len(cons) == 0 {
		cons = append(cons, "Review serving size for daily intake")
	}

	score = clampScore(score)

	summary := fmt.Sprintf("This %s has %s calories per serving with %sg protein. ",
		product.DisplayName(), formatAmount(calories), formatAmount(nutrition.Value("protein")))
	switch {
	case score >= 70:
		summary += "Overall, it looks like a nutritious choice for your health goals!"
	case score >= 50:
		summary += "It has some nutritional benefits but should be consumed mindfully."
	default:
		summary += "Consider healthier alternatives or consume in moderation."
	}

	return &domain.HealthResult{
		Score:   score,
		Summary: summary,
		Pros:    capList(pros, 3),
		Cons:    capList(cons, 3),
	}
}

// noNutritionHealthResult is the neutral answer for products with no
// nutrition facts at all
func noNutritionHealthResult() *domain.HealthResult {
	return &domain.HealthResult{
		Score:   50,
		Summary: "I can't fully assess the health alignment without nutrition information for this product.",
		Pros:    []string{"N/A"},
		Cons:    []string{"Missing nutrition data"},
	}
}
