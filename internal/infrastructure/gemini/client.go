package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nutriscan/backend/internal/domain"
)

// structuredTemperature keeps JSON responses close to deterministic
const structuredTemperature float32 = 0.2

// Config holds settings for the Gemini-backed text generator
type Config struct {
	APIKey string
	Model  string
	// RequestTimeout bounds each generation call; zero picks 30s
	RequestTimeout time.Duration
	// RequestsPerMinute caps outbound calls; zero picks 15, the free-tier
	// allowance
	RequestsPerMinute float64
}

// Client implements domain.TextGenerator over the Gemini API
type Client struct {
	client         *genai.Client
	model          string
	requestTimeout time.Duration
	rateLimiter    *rate.Limiter
}

// NewClient creates a Gemini text generator
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", domain.ErrGenerationFailed)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	requestTimeout := config.RequestTimeout
	if requestTimeout == 0 {
		requestTimeout = 30 * time.Second
	}

	perMinute := config.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 15
	}
	// Burst of 5 lets one evaluation's concurrent calls through without
	// queueing behind the limiter
	limiter := rate.NewLimiter(rate.Limit(perMinute/60), 5)

	return &Client{
		client:         client,
		model:          model,
		requestTimeout: requestTimeout,
		rateLimiter:    limiter,
	}, nil
}

// Generate sends one prompt and returns the concatenated text of the first
// candidate. structured asks the model for JSON output, which narrows the
// response shape but does not guarantee it.
func (c *Client) Generate(ctx context.Context, prompt string, structured bool) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrGenerationFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{}
	if structured {
		temperature := structuredTemperature
		genConfig.Temperature = &temperature
		genConfig.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genConfig)
	if err != nil {
		log.Printf("[GEMINI] generation failed after %v: %v", time.Since(start).Round(time.Millisecond), err)
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrGenerationFailed)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text parts in response", domain.ErrGenerationFailed)
	}

	return text, nil
}

// Disabled is the TextGenerator wired when no API key is configured. Every
// call fails, which pushes all consumers onto their deterministic fallback
// paths, so the evaluation pipeline keeps working without a provider.
type Disabled struct{}

// Generate always fails
func (Disabled) Generate(context.Context, string, bool) (string, error) {
	return "", fmt.Errorf("%w: generator disabled (no API key configured)", domain.ErrGenerationFailed)
}
