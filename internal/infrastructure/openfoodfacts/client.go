package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nutriscan/backend/internal/domain"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

// Config holds settings for the Open Food Facts client
type Config struct {
	BaseURL string
	// Timeout bounds each HTTP request; zero picks 10s
	Timeout time.Duration
	// Offline skips the HTTP API entirely and serves only the mock table
	Offline bool
}

// Client resolves barcodes against the Open Food Facts product API, with a
// built-in mock table as fallback when the API is unreachable or disabled.
// Implements domain.ProductSource.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	offline     bool
	rateLimiter *rate.Limiter
}

// NewClient creates an Open Food Facts client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	// OFF asks clients to stay under 100 product reads per minute
	limiter := rate.NewLimiter(rate.Limit(100.0/60), 10)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		offline:     config.Offline,
		rateLimiter: limiter,
	}
}

// Lookup resolves a barcode to a product. API failures of any kind fall
// back to the mock table before surfacing an error, so scanning keeps
// working for known demo barcodes when the upstream is down.
func (c *Client) Lookup(ctx context.Context, barcode string) (*domain.Product, error) {
	if c.offline {
		return c.mockLookup(barcode)
	}

	product, err := c.fetch(ctx, barcode)
	if err == nil {
		return product, nil
	}

	if mock, mockErr := c.mockLookup(barcode); mockErr == nil {
		log.Printf("[OFF] lookup failed for %s, serving mock product: %v", barcode, err)
		return mock, nil
	}

	return nil, err
}

// fetch performs the HTTP lookup with bounded retry
func (c *Client) fetch(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			log.Printf("[OFF] rate limited by upstream (attempt %d)", attempt)
			lastErr = domain.ErrRateLimited
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		case resp.StatusCode != http.StatusOK:
			log.Printf("[OFF] API error (attempt %d) - status %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var decoded lookupResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrSourceUnavailable, err)
		}

		// status 0 means the barcode is not in the database
		if decoded.Status != 1 {
			return nil, domain.ErrProductNotFound
		}

		product := mapProduct(barcode, &decoded.Product)
		log.Printf("[OFF] resolved barcode %s to %q", barcode, product.Name)
		return product, nil
	}

	log.Printf("[OFF] all retries failed for barcode %s", barcode)
	return nil, lastErr
}

// doRequest executes an HTTP GET with the headers OFF expects
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// OFF requires an identifying User-Agent
	req.Header.Set("User-Agent", "NutriScan/1.0 (https://github.com/nutriscan/backend)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	return resp, nil
}
