package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when a barcode cannot be resolved to a product
	ErrProductNotFound = errors.New("product not found")

	// ErrGenerationFailed is returned when a text-generation call fails
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrMalformedResponse is returned when generated text cannot be parsed
	// into the required shape
	ErrMalformedResponse = errors.New("malformed generation response")

	// ErrRateLimited is returned when an upstream rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrSourceUnavailable is returned when the product source request fails
	ErrSourceUnavailable = errors.New("product source request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
