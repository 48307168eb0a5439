package domain

// UserProfile carries the goals and constraints used to personalize scoring.
// Every field is optional: absence means "no stated preference" and the
// evaluators fall back to generic analysis rather than failing.
type UserProfile struct {
	HealthGoals         string   `json:"health_goals,omitempty"`
	FitnessGoals        string   `json:"fitness_goals,omitempty"`
	ActivityLevel       string   `json:"activity_level,omitempty"`
	DietType            string   `json:"diet_type,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	DailyCalorieTarget  *float64 `json:"daily_calorie_target,omitempty"`
	DailyProteinTarget  *float64 `json:"daily_protein_target_g,omitempty"`
	CarbsTarget         *float64 `json:"carbs_target_g,omitempty"`
	FatTarget           *float64 `json:"fat_target_g,omitempty"`
}

// IsEmpty reports whether the profile states no preference at all
func (p *UserProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.HealthGoals == "" && p.FitnessGoals == "" && p.ActivityLevel == "" &&
		p.DietType == "" && len(p.DietaryRestrictions) == 0 && len(p.Allergies) == 0 &&
		p.DailyCalorieTarget == nil && p.DailyProteinTarget == nil &&
		p.CarbsTarget == nil && p.FatTarget == nil
}
