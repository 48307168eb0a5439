package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

// barcodeRegex accepts the common retail formats (EAN-8 through EAN-14)
var barcodeRegex = regexp.MustCompile(`^\d{8,14}$`)

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	CacheTTL time.Duration
}

// ScanService resolves barcodes to products with read-through caching, so
// repeat scans of the same item skip the upstream lookup
type ScanService struct {
	source   domain.ProductSource
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewScanService creates a scan service with dependencies
func NewScanService(
	source domain.ProductSource,
	cache domain.CacheRepository,
	config ScanServiceConfig,
) *ScanService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ScanService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Scan looks up a product by barcode.
// Flow: validate -> check cache -> product source -> cache -> return
func (s *ScanService) Scan(ctx context.Context, barcode string) (*domain.Product, error) {
	if !barcodeRegex.MatchString(barcode) {
		return nil, fmt.Errorf("%w: barcode must be 8-14 digits", domain.ErrInvalidRequest)
	}

	cacheKey := "scan:" + barcode

	if product, err := s.getFromCache(ctx, cacheKey); err == nil && product != nil {
		return product, nil
	}

	product, err := s.source.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if err := s.setInCache(ctx, cacheKey, product); err != nil {
		// A cold cache is fine; the lookup already succeeded
		log.Printf("[SCAN] failed to cache product %s: %v", barcode, err)
	}

	return product, nil
}

// getFromCache retrieves a product from cache. Cached values come back as
// decoded JSON, so they are re-marshalled into the domain type.
func (s *ScanService) getFromCache(ctx context.Context, key string) (*domain.Product, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if product, ok := value.(*domain.Product); ok {
		return product, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, domain.ErrCacheMiss
	}
	if product.Nutrition == nil {
		product.Nutrition = domain.NutritionFacts{}
	}

	return &product, nil
}

// setInCache stores a product in cache
func (s *ScanService) setInCache(ctx context.Context, key string, product *domain.Product) error {
	return s.cache.Set(ctx, key, product, s.cacheTTL)
}
