package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nutriscan/backend/internal/domain"
)

// chatApology is the fixed reply for failed chat generations; the chat
// surface must never hard-fail a caller.
const chatApology = "I'm having trouble responding right now. Could you try asking again?"

// HealthAnalyzer produces health analyses. Implementations never fail: they
// degrade to fallbacks internally.
type HealthAnalyzer interface {
	Evaluate(ctx context.Context, product *domain.Product, profile *domain.UserProfile) *domain.HealthResult
}

// FitnessAnalyzer produces fitness analyses with the same no-fail contract
type FitnessAnalyzer interface {
	Evaluate(ctx context.Context, product *domain.Product, profile *domain.UserProfile) *domain.FitnessResult
}

// PriceAnalyzer rates value for money
type PriceAnalyzer interface {
	Evaluate(ctx context.Context, product *domain.Product) *domain.PriceResult
}

// ChatContext carries optional grounding for the chat operation
type ChatContext struct {
	Product *domain.Product
	Profile *domain.UserProfile
}

// EvaluationService coordinates the assessment pipeline: it fans out the
// three independent evaluators, joins their results, computes the overall
// outcome and synthesizes the companion message. Stateless per call.
type EvaluationService struct {
	health    HealthAnalyzer
	fitness   FitnessAnalyzer
	price     PriceAnalyzer
	generator domain.TextGenerator
}

// NewEvaluationService creates the orchestrator from its three evaluators
// and the generator used for companion messages and chat
func NewEvaluationService(
	health HealthAnalyzer,
	fitness FitnessAnalyzer,
	price PriceAnalyzer,
	generator domain.TextGenerator,
) *EvaluationService {
	return &EvaluationService{
		health:    health,
		fitness:   fitness,
		price:     price,
		generator: generator,
	}
}

// Evaluate runs the full assessment for one product/profile pair.
// The three evaluators run concurrently and are fully isolated, so the merge
// step always receives three complete results; total latency is bounded by
// the slowest evaluator. The only possible error is a nil argument.
func (s *EvaluationService) Evaluate(
	ctx context.Context,
	product *domain.Product,
	profile *domain.UserProfile,
) (*domain.Evaluation, error) {
	if product == nil || profile == nil {
		return nil, domain.ErrInvalidRequest
	}

	var (
		health  *domain.HealthResult
		fitness *domain.FitnessResult
		price   *domain.PriceResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		health = s.health.Evaluate(gctx, product, profile)
		return nil
	})
	g.Go(func() error {
		fitness = s.fitness.Evaluate(gctx, product, profile)
		return nil
	})
	g.Go(func() error {
		price = s.price.Evaluate(gctx, product)
		return nil
	})

	// Join barrier: all three must resolve before the merge
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := computeOverall(health.Score, fitness.Score)

	evaluation := &domain.Evaluation{
		Product:         product.Identity(),
		HealthAnalysis:  *health,
		FitnessAnalysis: *fitness,
		PriceAnalysis:   *price,
		Overall:         overall,
	}
	evaluation.CompanionMessage = s.companionMessage(ctx, product, profile, health, fitness, price, overall)

	return evaluation, nil
}

// Chat answers a free-form message, grounded in whatever context the caller
// supplied. Provider failures yield the fixed apology, never an error.
func (s *EvaluationService) Chat(ctx context.Context, message string, chatCtx ChatContext) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", domain.ErrInvalidRequest
	}

	text, err := s.generator.Generate(ctx, buildChatPrompt(message, chatCtx), false)
	if err != nil {
		log.Printf("[EVAL] chat generation failed: %v", err)
		return chatApology, nil
	}
	if reply := strings.TrimSpace(text); reply != "" {
		return reply, nil
	}

	log.Printf("[EVAL] chat generation returned empty text")
	return chatApology, nil
}

// companionMessage asks the generator for a personalized synthesis of the
// merged results and degrades to the template on any failure
func (s *EvaluationService) companionMessage(
	ctx context.Context,
	product *domain.Product,
	profile *domain.UserProfile,
	health *domain.HealthResult,
	fitness *domain.FitnessResult,
	price *domain.PriceResult,
	overall domain.Overall,
) string {
	text, err := s.generator.Generate(ctx, buildCompanionPrompt(product, profile, health, fitness, price, overall), false)
	if err != nil {
		log.Printf("[EVAL] companion generation failed, using template: %v", err)
		return fallbackCompanionMessage(product, health, fitness, overall)
	}
	if message := strings.TrimSpace(text); message != "" {
		return message
	}

	log.Printf("[EVAL] companion generation returned empty text, using template")
	return fallbackCompanionMessage(product, health, fitness, overall)
}

// computeOverall averages the two numeric scores and maps the mean to a
// recommendation tier. Price stays out of the average: its rating is
// qualitative.
func computeOverall(healthScore, fitnessScore int) domain.Overall {
	score := int(math.Round(float64(healthScore+fitnessScore) / 2))
	recommendation, emoji := recommendationForScore(score)
	return domain.Overall{
		Score:               score,
		Recommendation:      recommendation,
		RecommendationEmoji: emoji,
	}
}

// recommendationForScore maps an overall score to its tier and emoji
func recommendationForScore(score int) (string, string) {
	switch {
	case score >= 80:
		return domain.TierHighlyRecommended, "✅"
	case score >= 60:
		return domain.TierGoodChoice, "👍"
	case score >= 40:
		return domain.TierAcceptable, "⚠️"
	default:
		return domain.TierNotRecommended, "❌"
	}
}

// fallbackCompanionMessage builds the templated companion message from the
// merged results when generation is unavailable
func fallbackCompanionMessage(
	product *domain.Product,
	health *domain.HealthResult,
	fitness *domain.FitnessResult,
	overall domain.Overall,
) string {
	tone := "Let's explore better options."
	if overall.Score >= 70 {
		tone = "Great choice!"
	} else if overall.Score >= 50 {
		tone = "This could work with some considerations."
	}

	intro := fmt.Sprintf("Hey! I see you scanned %s", product.DisplayName())
	if product.Brand != "" {
		intro += " by " + product.Brand
	}

	return fmt.Sprintf("%s. %s Overall Score: %d/100 - %s %s\n\n%s\n\n%s\n\n%s\n\nI'm here to help you make informed choices for your health journey. Keep it up! 💪",
		intro, tone, overall.Score, overall.Recommendation, overall.RecommendationEmoji,
		health.Summary, fitness.Summary, fitness.Recommendation)
}
