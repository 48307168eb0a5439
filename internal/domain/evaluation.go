package domain

// Recommendation tiers derived from the overall score
const (
	TierHighlyRecommended = "Highly Recommended"
	TierGoodChoice        = "Good Choice"
	TierAcceptable        = "Acceptable with Caution"
	TierNotRecommended    = "Not Recommended"
)

// Price ratings produced by the price evaluator
const (
	PriceExcellentDeal = "Excellent Deal"
	PriceGoodPrice     = "Good Price"
	PriceFairPrice     = "Fair Price"
	PriceExpensive     = "Expensive"
	PriceUnknown       = "Unknown"
)

// HealthResult is the fixed-shape output of the health evaluator.
// Score is always present and within [0,100], including on the fallback path.
type HealthResult struct {
	Score   int      `json:"score"`
	Summary string   `json:"summary"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

// FitnessResult is the fixed-shape output of the fitness evaluator
type FitnessResult struct {
	Score          int    `json:"score"`
	Summary        string `json:"summary"`
	BestFor        string `json:"best_for"`
	Recommendation string `json:"recommendation"`
}

// PriceResult is the fixed-shape output of the price evaluator.
// Rating is Unknown when the product carries no price; ComparisonPercent is
// only meaningful for priced products.
type PriceResult struct {
	Rating            string   `json:"rating"`
	IsGoodDeal        bool     `json:"is_good_deal"`
	UnitPrice         *float64 `json:"unit_price,omitempty"`
	CategoryAverage   float64  `json:"category_average"`
	ComparisonPercent float64  `json:"comparison_percent"`
	Summary           string   `json:"summary"`
}

// Overall is the merged outcome derived from the health and fitness scores
type Overall struct {
	Score               int    `json:"score"`
	Recommendation      string `json:"recommendation"`
	RecommendationEmoji string `json:"recommendation_emoji"`
}

// ProductIdentity echoes the essential product fields in an Evaluation
type ProductIdentity struct {
	Barcode  string   `json:"barcode,omitempty"`
	Name     string   `json:"name"`
	Brand    string   `json:"brand,omitempty"`
	Category string   `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// Evaluation is the merged result of one product assessment
type Evaluation struct {
	Product          ProductIdentity `json:"product"`
	HealthAnalysis   HealthResult    `json:"health_analysis"`
	FitnessAnalysis  FitnessResult   `json:"fitness_analysis"`
	PriceAnalysis    PriceResult     `json:"price_analysis"`
	Overall          Overall         `json:"overall"`
	CompanionMessage string          `json:"companion_message"`
}
