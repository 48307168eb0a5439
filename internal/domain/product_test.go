package domain

import "testing"

func TestNutritionFacts_Lookup(t *testing.T) {
	facts := NutritionFacts{
		"energy":      240,
		"proteins":    3,
		"carbs":       65,
		"salt":        75,
		"fibre":       1,
		"sugar_total": 34,
		"zinc":        2,
	}

	tests := []struct {
		name     string
		nutrient string
		want     float64
		found    bool
	}{
		{"energy aliases calories", "calories", 240, true},
		{"proteins aliases protein", "protein", 3, true},
		{"carbs aliases carbohydrates", "carbohydrates", 65, true},
		{"salt aliases sodium", "sodium", 75, true},
		{"fibre aliases fiber", "fiber", 1, true},
		{"sugar_total aliases sugar", "sugar", 34, true},
		{"unaliased key matches itself", "zinc", 2, true},
		{"absent nutrient", "cholesterol", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := facts.Lookup(tt.nutrient)
			if got != tt.want || found != tt.found {
				t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", tt.nutrient, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestNutritionFacts_LookupDistinguishesZeroFromAbsent(t *testing.T) {
	facts := NutritionFacts{"sugar": 0}

	if v, found := facts.Lookup("sugar"); !found || v != 0 {
		t.Errorf("Lookup(sugar) = (%v, %v), want (0, true)", v, found)
	}
	if _, found := facts.Lookup("fat"); found {
		t.Error("Lookup(fat) found = true, want false")
	}
}

func TestNutritionFacts_Value(t *testing.T) {
	facts := NutritionFacts{"protein": 21}

	if got := facts.Value("protein"); got != 21 {
		t.Errorf("Value(protein) = %v, want 21", got)
	}
	if got := facts.Value("sugar"); got != 0 {
		t.Errorf("Value(sugar) = %v, want 0", got)
	}
}

func TestNutritionFacts_IsEmpty(t *testing.T) {
	var nilFacts NutritionFacts
	if !nilFacts.IsEmpty() {
		t.Error("nil facts should be empty")
	}
	if !(NutritionFacts{}).IsEmpty() {
		t.Error("empty map should be empty")
	}
	if (NutritionFacts{"calories": 0}).IsEmpty() {
		t.Error("a recorded zero still counts as data")
	}
}

func TestProduct_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		product *Product
		want    string
	}{
		{"named product", &Product{Name: "Quest Protein Bar"}, "Quest Protein Bar"},
		{"blank name", &Product{Name: "   "}, "this product"},
		{"empty name", &Product{}, "this product"},
		{"nil product", nil, "this product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.product.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProduct_Identity(t *testing.T) {
	price := 2.49
	product := &Product{
		Barcode:     "722252601025",
		Name:        "Quest Protein Bar",
		Brand:       "Quest Nutrition",
		Category:    "health_food",
		Price:       &price,
		ServingSize: "60g",
		Nutrition:   NutritionFacts{"protein": 21},
	}

	identity := product.Identity()

	if identity.Barcode != product.Barcode || identity.Name != product.Name ||
		identity.Brand != product.Brand || identity.Category != product.Category {
		t.Errorf("Identity() = %+v", identity)
	}
	if identity.Price != product.Price {
		t.Error("Identity() should carry the price pointer through")
	}
}

func TestUserProfile_IsEmpty(t *testing.T) {
	var nilProfile *UserProfile
	if !nilProfile.IsEmpty() {
		t.Error("nil profile should be empty")
	}
	if !(&UserProfile{}).IsEmpty() {
		t.Error("zero profile should be empty")
	}

	target := 2000.0
	populated := []*UserProfile{
		{HealthGoals: "keto"},
		{FitnessGoals: "muscle_gain"},
		{ActivityLevel: "very_active"},
		{DietType: "vegetarian"},
		{DietaryRestrictions: []string{"no peanuts"}},
		{Allergies: []string{"shellfish"}},
		{DailyCalorieTarget: &target},
	}
	for i, profile := range populated {
		if profile.IsEmpty() {
			t.Errorf("profile %d should not be empty", i)
		}
	}
}
