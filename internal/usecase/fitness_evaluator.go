package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/nutriscan/backend/internal/domain"
)

// FitnessEvaluator scores how well a product supports the user's training
// goals and recommends when to consume it. Same isolation contract as the
// health evaluator: it never fails.
type FitnessEvaluator struct {
	generator domain.TextGenerator
}

// NewFitnessEvaluator creates a fitness evaluator backed by the given generator
func NewFitnessEvaluator(generator domain.TextGenerator) *FitnessEvaluator {
	return &FitnessEvaluator{generator: generator}
}

// Evaluate produces the fitness analysis for a product/profile pair
func (e *FitnessEvaluator) Evaluate(ctx context.Context, product *domain.Product, profile *domain.UserProfile) *domain.FitnessResult {
	if product.Nutrition.IsEmpty() {
		return noNutritionFitnessResult()
	}

	macros := calculateMacros(product.Nutrition)

	text, err := e.generator.Generate(ctx, buildFitnessPrompt(product, profile, macros), true)
	if err != nil {
		log.Printf("[FITNESS] generation failed, using fallback: %v", err)
		return fitnessFallback(product, macros)
	}

	result, err := parseFitnessResponse(text)
	if err != nil {
		log.Printf("[FITNESS] unusable response, using fallback: %v", err)
		return fitnessFallback(product, macros)
	}

	return result
}

// macroBreakdown summarizes where a product's calories come from.
// Calories per gram: protein 4, carbohydrates 4, fat 9.
type macroBreakdown struct {
	TotalCalories  float64
	ProteinPercent float64
	CarbsPercent   float64
	FatPercent     float64
}

// calculateMacros derives the calorie split from the macro gram amounts
func calculateMacros(nutrition domain.NutritionFacts) macroBreakdown {
	proteinCal := nutrition.Value("protein") * 4
	carbsCal := nutrition.Value("carbohydrates") * 4
	fatCal := nutrition.Value("fat") * 9

	total := proteinCal + carbsCal + fatCal
	if total <= 0 {
		return macroBreakdown{}
	}

	return macroBreakdown{
		TotalCalories:  total,
		ProteinPercent: proteinCal / total * 100,
		CarbsPercent:   carbsCal / total * 100,
		FatPercent:     fatCal / total * 100,
	}
}

// fitnessFallback classifies the product by protein content, sugar and macro
// ratios into canned best-for/recommendation templates
func fitnessFallback(product *domain.Product, macros macroBreakdown) *domain.FitnessResult {
	nutrition := product.Nutrition
	protein := nutrition.Value("protein")
	carbs := nutrition.Value("carbohydrates")
	fat := nutrition.Value("fat")
	calories := nutrition.Value("calories")

	score := 50
	bestFor := "a general snack"
	recommendation := ""

	if protein >= 20 {
		score += 20
		bestFor = "post-workout recovery or muscle building"
		recommendation = "Excellent protein source for muscle recovery and growth!"
	} else if protein >= 10 {
		score += 10
		bestFor = "a protein supplement"
		recommendation = "Good protein content to support your fitness goals."
	}

	if sugar, ok := nutrition.Lookup("sugar"); ok {
		if sugar <= 5 {
			score += 10
		} else if sugar > 15 {
			score -= 10
			recommendation = "High sugar content - best consumed before or during intense workouts only."
		}
	}

	if macros.ProteinPercent >= 30 {
		score += 10
	}

	// High carbs with little fat digests fast enough for pre-workout fuel
	if carbs >= 30 && fat < 5 {
		bestFor = "pre-workout energy"
		score += 5
	}

	// Protein plus moderate carbs is the classic recovery combination
	if protein >= 15 && carbs >= 20 && carbs <= 40 {
		bestFor = "post-workout recovery"
		score += 10
	}

	score = clampScore(score)

	summary := fmt.Sprintf("This %s provides %s calories with %sg protein (%.0f%%), %sg carbs and %sg fat. ",
		product.DisplayName(), formatAmount(calories), formatAmount(protein),
		macros.ProteinPercent, formatAmount(carbs), formatAmount(fat))
	switch {
	case score >= 70:
		summary += "Perfect for your fitness goals!"
	case score >= 50:
		summary += "Can fit into your fitness nutrition plan with mindful portions."
	default:
		summary += "Consider alternatives more aligned with your fitness needs."
	}

	if recommendation == "" {
		if score >= 70 {
			recommendation = "Great choice for active individuals. Work it into your balanced fitness plan."
		} else {
			recommendation = "Better options exist for your fitness goals. Use sparingly."
		}
	}

	return &domain.FitnessResult{
		Score:          score,
		Summary:        summary,
		BestFor:        bestFor,
		Recommendation: recommendation,
	}
}

// noNutritionFitnessResult is the neutral answer for products with no
// nutrition facts at all
func noNutritionFitnessResult() *domain.FitnessResult {
	return &domain.FitnessResult{
		Score:          50,
		Summary:        "I can't assess fitness alignment without nutrition information for this product.",
		BestFor:        "N/A",
		Recommendation: "Look for a product that lists its nutrition facts.",
	}
}
