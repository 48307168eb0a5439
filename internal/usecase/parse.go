package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// extractJSON pulls a JSON object out of model output. Models wrap JSON in
// markdown fences or surrounding prose often enough that going straight to
// json.Unmarshal loses recoverable responses.
// Strategy: ```json fence, then any fence, then first balanced {...} block.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if start := strings.Index(response, "```json"); start != -1 {
		rest := response[start+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	if start := strings.Index(response, "```"); start != -1 {
		rest := response[start+len("```"):]
		// Skip a short language identifier on the fence line
		if nl := strings.Index(rest, "\n"); nl != -1 && nl < 20 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}
	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response
}

// parseHealthResponse decodes generated text into a health result.
// Returns ErrMalformedResponse when the text is not JSON or the score is
// missing or out of range; callers convert that into the fallback path.
func parseHealthResponse(text string) (*domain.HealthResult, error) {
	var decoded struct {
		Score   *float64 `json:"score"`
		Summary string   `json:"summary"`
		Pros    []string `json:"pros"`
		Cons    []string `json:"cons"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if decoded.Score == nil || *decoded.Score < 0 || *decoded.Score > 100 {
		return nil, fmt.Errorf("%w: score missing or out of range", domain.ErrMalformedResponse)
	}
	if strings.TrimSpace(decoded.Summary) == "" {
		return nil, fmt.Errorf("%w: summary missing", domain.ErrMalformedResponse)
	}

	return &domain.HealthResult{
		Score:   int(math.Round(*decoded.Score)),
		Summary: strings.TrimSpace(decoded.Summary),
		Pros:    capList(decoded.Pros, 3),
		Cons:    capList(decoded.Cons, 3),
	}, nil
}

// parseFitnessResponse decodes generated text into a fitness result.
// All four keys are required; anything less falls back.
func parseFitnessResponse(text string) (*domain.FitnessResult, error) {
	var decoded struct {
		Score          *float64 `json:"score"`
		Summary        string   `json:"summary"`
		BestFor        string   `json:"best_for"`
		Recommendation string   `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if decoded.Score == nil || *decoded.Score < 0 || *decoded.Score > 100 {
		return nil, fmt.Errorf("%w: score missing or out of range", domain.ErrMalformedResponse)
	}
	if strings.TrimSpace(decoded.Summary) == "" ||
		strings.TrimSpace(decoded.BestFor) == "" ||
		strings.TrimSpace(decoded.Recommendation) == "" {
		return nil, fmt.Errorf("%w: required field missing", domain.ErrMalformedResponse)
	}

	return &domain.FitnessResult{
		Score:          int(math.Round(*decoded.Score)),
		Summary:        strings.TrimSpace(decoded.Summary),
		BestFor:        strings.TrimSpace(decoded.BestFor),
		Recommendation: strings.TrimSpace(decoded.Recommendation),
	}, nil
}

// capList trims a list to at most max entries, dropping blank ones
func capList(items []string, max int) []string {
	out := make([]string, 0, max)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}

// clampScore bounds a score to the valid [0,100] range
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
