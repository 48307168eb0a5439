package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// nutritionLabels drives the order and labelling of nutrition lines in
// prompts. Only nutrients with known positive values are rendered.
var nutritionLabels = []struct {
	key   string
	label string
}{
	{"calories", "Calories"},
	{"protein", "Protein (g)"},
	{"carbohydrates", "Carbohydrates (g)"},
	{"sugar", "Sugar (g)"},
	{"fat", "Total Fat (g)"},
	{"saturated_fat", "Saturated Fat (g)"},
	{"sodium", "Sodium (mg)"},
	{"fiber", "Fiber (g)"},
	{"cholesterol", "Cholesterol (mg)"},
}

// nutritionSummary builds the per-serving nutrition block used in prompts
func nutritionSummary(product *domain.Product) string {
	if product.Nutrition.IsEmpty() {
		return "No nutrition information available"
	}

	var lines []string
	for _, entry := range nutritionLabels {
		if v, ok := product.Nutrition.Lookup(entry.key); ok && v > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %s", entry.label, formatAmount(v)))
		}
	}
	if len(lines) == 0 {
		return "No nutrition information available"
	}
	return strings.Join(lines, "\n")
}

// healthGoalsText renders the user's health goals, deriving a readable
// default from diet type and calorie target when no goal text was given
func healthGoalsText(profile *domain.UserProfile) string {
	if strings.TrimSpace(profile.HealthGoals) != "" {
		return profile.HealthGoals
	}

	var goals []string
	if profile.DietType != "" && !strings.EqualFold(profile.DietType, "standard") {
		goals = append(goals, profile.DietType)
	}
	if profile.DailyCalorieTarget != nil {
		goals = append(goals, fmt.Sprintf("target %s calories", formatAmount(*profile.DailyCalorieTarget)))
	}
	if len(goals) == 0 {
		return "general health"
	}
	return strings.Join(goals, ", ")
}

// fitnessGoalsText renders the user's fitness goals with the same derivation
// rules the profile formatter applies: underscores become spaces, a protein
// target above 100g implies a high protein diet
func fitnessGoalsText(profile *domain.UserProfile) string {
	var goals []string
	if strings.TrimSpace(profile.FitnessGoals) != "" {
		goal := strings.ReplaceAll(profile.FitnessGoals, "_", " ")
		switch {
		case strings.Contains(strings.ToLower(goal), "muscle"):
			goals = append(goals, "muscle building")
		case strings.Contains(strings.ToLower(goal), "loss"):
			goals = append(goals, "weight loss")
		case strings.Contains(strings.ToLower(goal), "gain"):
			goals = append(goals, "weight gain")
		default:
			goals = append(goals, goal)
		}
	}
	if profile.ActivityLevel != "" {
		goals = append(goals, strings.ReplaceAll(profile.ActivityLevel, "_", " "))
	}
	if profile.DailyProteinTarget != nil && *profile.DailyProteinTarget > 100 {
		goals = append(goals, "high protein diet")
	}
	if len(goals) == 0 {
		return "general fitness"
	}
	return strings.Join(goals, ", ")
}

// restrictionsText renders allergies and dietary restrictions as one clause
func restrictionsText(profile *domain.UserProfile) string {
	var restrictions []string
	for _, allergy := range profile.Allergies {
		if a := strings.TrimSpace(allergy); a != "" {
			restrictions = append(restrictions, "no "+a)
		}
	}
	for _, r := range profile.DietaryRestrictions {
		if r = strings.TrimSpace(r); r != "" {
			restrictions = append(restrictions, r)
		}
	}
	if len(restrictions) == 0 {
		return "None"
	}
	return strings.Join(restrictions, ", ")
}

// buildHealthPrompt assembles the health evaluation prompt. The response
// contract is a bare JSON object so parsing stays predictable.
func buildHealthPrompt(product *domain.Product, profile *domain.UserProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a nutrition and health expert companion. Analyze this product for someone with these health goals: %s\n\n", healthGoalsText(profile))
	fmt.Fprintf(&b, "Product: %s\n", product.DisplayName())
	if product.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", product.Brand)
	}
	if product.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", product.Category)
	}
	fmt.Fprintf(&b, "\nNutrition facts (per serving):\n%s\n\n", nutritionSummary(product))
	fmt.Fprintf(&b, "Dietary restrictions: %s\n", restrictionsText(profile))
	fmt.Fprintf(&b, "Diet type: %s\n", orNotSpecified(profile.DietType))
	fmt.Fprintf(&b, "Daily calorie target: %s\n\n", orNotSpecifiedFloat(profile.DailyCalorieTarget))

	b.WriteString("Score how well this product aligns with the user's health goals.\n")
	b.WriteString("Respond with ONLY a JSON object in exactly this shape, no markdown and no extra text:\n")
	b.WriteString(`{"score": <integer 0-100>, "summary": "<2-3 friendly sentences>", "pros": ["<up to 3 nutritional positives>"], "cons": ["<up to 3 nutritional concerns>"]}`)

	return b.String()
}

// buildFitnessPrompt assembles the fitness evaluation prompt
func buildFitnessPrompt(product *domain.Product, profile *domain.UserProfile, macros macroBreakdown) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a fitness nutrition expert companion. Analyze this product for someone with these fitness goals: %s\n\n", fitnessGoalsText(profile))
	fmt.Fprintf(&b, "Product: %s\n", product.DisplayName())
	if product.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", product.Brand)
	}
	fmt.Fprintf(&b, "\nNutrition facts (per serving):\n%s\n\n", nutritionSummary(product))
	if macros.TotalCalories > 0 {
		fmt.Fprintf(&b, "Macro breakdown: %.0f%% protein, %.0f%% carbs, %.0f%% fat\n", macros.ProteinPercent, macros.CarbsPercent, macros.FatPercent)
	}
	fmt.Fprintf(&b, "Activity level: %s\n", orNotSpecified(profile.ActivityLevel))
	fmt.Fprintf(&b, "Daily protein target: %sg\n\n", orNotSpecifiedFloat(profile.DailyProteinTarget))

	b.WriteString("Score how well this product supports the user's training and fitness goals, ")
	b.WriteString("say when it is best consumed, and give one concrete instruction.\n")
	b.WriteString("Respond with ONLY a JSON object in exactly this shape, no markdown and no extra text:\n")
	b.WriteString(`{"score": <integer 0-100>, "summary": "<2-3 friendly sentences>", "best_for": "<short phrase like 'post-workout recovery'>", "recommendation": "<one concrete instruction>"}`)

	return b.String()
}

// buildCompanionPrompt grounds the companion message in the product, the
// user's profile and all three analyses
func buildCompanionPrompt(
	product *domain.Product,
	profile *domain.UserProfile,
	health *domain.HealthResult,
	fitness *domain.FitnessResult,
	price *domain.PriceResult,
	overall domain.Overall,
) string {
	var b strings.Builder

	b.WriteString("You are a friendly, supportive nutrition companion helping users make informed food choices.\n\n")

	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "- Health goals: %s\n", healthGoalsText(profile))
	fmt.Fprintf(&b, "- Fitness goals: %s\n", fitnessGoalsText(profile))
	fmt.Fprintf(&b, "- Dietary restrictions: %s\n", restrictionsText(profile))
	fmt.Fprintf(&b, "- Daily calorie target: %s\n", orNotSpecifiedFloat(profile.DailyCalorieTarget))
	fmt.Fprintf(&b, "- Daily protein target: %sg\n\n", orNotSpecifiedFloat(profile.DailyProteinTarget))

	b.WriteString("PRODUCT:\n")
	fmt.Fprintf(&b, "%s", product.DisplayName())
	if product.Brand != "" {
		fmt.Fprintf(&b, " by %s", product.Brand)
	}
	b.WriteString("\n")
	if product.Price != nil {
		fmt.Fprintf(&b, "Price: $%.2f\n", *product.Price)
	}
	fmt.Fprintf(&b, "%s\n\n", nutritionSummary(product))

	b.WriteString("ANALYSIS RESULTS:\n")
	fmt.Fprintf(&b, "Health score: %d/100 - %s\n", health.Score, health.Summary)
	if len(health.Pros) > 0 {
		fmt.Fprintf(&b, "Pros: %s\n", strings.Join(health.Pros, ", "))
	}
	if len(health.Cons) > 0 {
		fmt.Fprintf(&b, "Cons: %s\n", strings.Join(health.Cons, ", "))
	}
	fmt.Fprintf(&b, "Fitness score: %d/100 - %s\n", fitness.Score, fitness.Summary)
	fmt.Fprintf(&b, "Best for: %s\n", fitness.BestFor)
	fmt.Fprintf(&b, "Price rating: %s - %s\n", price.Rating, price.Summary)
	fmt.Fprintf(&b, "Overall: %d/100 (%s)\n\n", overall.Score, overall.Recommendation)

	b.WriteString("Write a short, friendly message (2-3 paragraphs) that acknowledges what they scanned, ")
	b.WriteString("explains how it fits THEIR goals, gives one actionable tip on timing or portions, ")
	b.WriteString("mentions the value for money, and ends with encouragement. ")
	b.WriteString("Sound like a knowledgeable friend, not a clinical report.")

	return b.String()
}

// buildChatPrompt assembles the free-form chat prompt with whatever context
// the caller supplied
func buildChatPrompt(message string, chatCtx ChatContext) string {
	var b strings.Builder

	b.WriteString("You are a friendly, knowledgeable nutrition companion helping users reach their health and fitness goals.\n\n")

	if ctxBlock := chatContextBlock(chatCtx); ctxBlock != "" {
		b.WriteString(ctxBlock)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "User's message: %s\n\n", message)
	b.WriteString("Respond in a warm, conversational and supportive way with helpful, actionable advice.")

	return b.String()
}

// chatContextBlock renders the optional grounding context for chat
func chatContextBlock(chatCtx ChatContext) string {
	var parts []string

	if profile := chatCtx.Profile; profile != nil && !profile.IsEmpty() {
		var lines []string
		if profile.HealthGoals != "" {
			lines = append(lines, "Health goals: "+profile.HealthGoals)
		}
		if profile.FitnessGoals != "" {
			lines = append(lines, "Fitness goals: "+profile.FitnessGoals)
		}
		if profile.ActivityLevel != "" {
			lines = append(lines, "Activity level: "+strings.ReplaceAll(profile.ActivityLevel, "_", " "))
		}
		if profile.DietType != "" && !strings.EqualFold(profile.DietType, "standard") {
			lines = append(lines, "Diet type: "+profile.DietType)
		}
		if profile.DailyCalorieTarget != nil {
			lines = append(lines, fmt.Sprintf("Daily calorie target: %s cal", formatAmount(*profile.DailyCalorieTarget)))
		}
		if profile.DailyProteinTarget != nil {
			lines = append(lines, fmt.Sprintf("Daily protein target: %sg", formatAmount(*profile.DailyProteinTarget)))
		}
		if len(profile.Allergies) > 0 {
			lines = append(lines, "Allergies: "+strings.Join(profile.Allergies, ", "))
		}
		if len(profile.DietaryRestrictions) > 0 {
			lines = append(lines, "Dietary restrictions: "+strings.Join(profile.DietaryRestrictions, ", "))
		}
		if len(lines) > 0 {
			parts = append(parts, "USER PROFILE:\n- "+strings.Join(lines, "\n- "))
		}
	}

	if product := chatCtx.Product; product != nil {
		line := "Recently scanned: " + product.DisplayName()
		if product.Brand != "" {
			line += " by " + product.Brand
		}
		if !product.Nutrition.IsEmpty() {
			line += fmt.Sprintf(" (calories %s, protein %sg, sugar %sg)",
				formatAmount(product.Nutrition.Value("calories")),
				formatAmount(product.Nutrition.Value("protein")),
				formatAmount(product.Nutrition.Value("sugar")))
		}
		parts = append(parts, line)
	}

	return strings.Join(parts, "\n")
}

// formatAmount renders a numeric amount without trailing zeros
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func orNotSpecifiedFloat(v *float64) string {
	if v == nil {
		return "Not specified"
	}
	return formatAmount(*v)
}
