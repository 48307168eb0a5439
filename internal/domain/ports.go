package domain

import (
	"context"
	"time"
)

// TextGenerator is the outbound port to a hosted text-generation model.
// structured hints that the caller expects a JSON object back; providers may
// use it to request structured output, but the hint does not guarantee the
// response shape. Implementations may fail (timeout, quota, auth) and callers
// are responsible for converting failures into fallback results.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, structured bool) (string, error)
}

// ProductSource defines the interface for resolving barcodes to products
type ProductSource interface {
	Lookup(ctx context.Context, barcode string) (*Product, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
