package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/config"
	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"capacitor://*", "http://localhost:3000"},
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
	}
}

// setupTestRouter creates a test router without wired services; the handler
// answers 501 on service endpoints
func setupTestRouter() *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(nil, nil))
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "nutriscan-backend" {
			t.Errorf("service = %v, want nutriscan-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestEndpointsWithoutServices(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/evaluate"},
		{"POST", "/api/v1/chat"},
		{"GET", "/api/v1/products/722252601025"},
		{"POST", "/api/v1/products/722252601025/evaluate"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()

			req, _ := http.NewRequest(endpoint.method, endpoint.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotImplemented {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			errorMsg, ok := response["error"].(string)
			if !ok || !strings.Contains(errorMsg, "not configured") {
				t.Errorf("error = %v, want to contain 'not configured'", response["error"])
			}
		})
	}
}

func TestCORSIntegration(t *testing.T) {
	t.Run("allows the mobile app origin", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "capacitor://localhost")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "capacitor://localhost" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "capacitor://localhost")
		}

		if gotCreds := w.Header().Get("Access-Control-Allow-Credentials"); gotCreds != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", gotCreds, "true")
		}

		if gotVary := w.Header().Get("Vary"); gotVary != "Origin" {
			t.Errorf("Vary = %q, want %q", gotVary, "Origin")
		}
	})

	t.Run("allows the dev server origin", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/evaluate", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
		}
	})

	t.Run("ignores unknown origins", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if gotOrigin := w.Header().Get("Access-Control-Allow-Origin"); gotOrigin != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", gotOrigin)
		}
	})

	t.Run("answers preflight with 204", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("OPTIONS", "/api/v1/evaluate", nil)
		req.Header.Set("Origin", "capacitor://localhost")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if gotOrigin := w.Header().Get("Access-Control-Allow-Origin"); gotOrigin != "capacitor://localhost" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "capacitor://localhost")
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestAPIVersioning(t *testing.T) {
	t.Run("v1 routes are accessible", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/evaluate", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		// 501 from the unwired handler, not 404 from the router
		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter()

		for _, path := range []string{"/evaluate", "/api/evaluate", "/api/v2/evaluate"} {
			req, _ := http.NewRequest("POST", path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Path %s: Status = %d, want %d", path, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"POST", "/api/v1/evaluate"},
		{"GET", "/api/v1/products/722252601025"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()

			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}

// --- Mock implementations for testing ---

// stubGenerator is a canned TextGenerator. The evaluators call it
// concurrently, so access is guarded.
type stubGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, structured bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// failingGenerator forces every evaluator onto its deterministic fallback
func failingGenerator() *stubGenerator {
	return &stubGenerator{err: domain.ErrGenerationFailed}
}

type mockProductSource struct {
	products    map[string]*domain.Product
	lookupCalls int
	lookupError error
}

func newMockProductSource() *mockProductSource {
	return &mockProductSource{products: make(map[string]*domain.Product)}
}

func (m *mockProductSource) Lookup(ctx context.Context, barcode string) (*domain.Product, error) {
	m.lookupCalls++
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	if product, ok := m.products[barcode]; ok {
		return product, nil
	}
	return nil, domain.ErrProductNotFound
}

type mockCacheRepository struct {
	data map[string]interface{}
}

func newMockCacheRepository() *mockCacheRepository {
	return &mockCacheRepository{data: make(map[string]interface{})}
}

func (m *mockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func questProduct() *domain.Product {
	price := 2.49
	return &domain.Product{
		Barcode:     "722252601025",
		Name:        "Quest Protein Bar - Chocolate Chip Cookie Dough",
		Brand:       "Quest Nutrition",
		Category:    "health_food",
		Price:       &price,
		ServingSize: "2.12 oz (60g)",
		Nutrition: domain.NutritionFacts{
			"calories":      200,
			"protein":       21,
			"carbohydrates": 22,
			"sugar":         1,
			"fat":           8,
			"saturated_fat": 3,
			"sodium":        250,
			"fiber":         14,
		},
	}
}

// setupTestRouterWithServices wires real services over mocked ports
func setupTestRouterWithServices(source domain.ProductSource, generator domain.TextGenerator) *gin.Engine {
	scanService := usecase.NewScanService(source, newMockCacheRepository(), usecase.ScanServiceConfig{
		CacheTTL: time.Hour,
	})
	evaluationService := usecase.NewEvaluationService(
		usecase.NewHealthEvaluator(generator),
		usecase.NewFitnessEvaluator(generator),
		usecase.NewPriceEvaluator(usecase.PriceConfig{}),
		generator,
	)

	handler := NewHandler(evaluationService, scanService)
	return SetupRouter(testConfig(), handler)
}

func TestEvaluateEndpoint(t *testing.T) {
	t.Run("evaluates a product from the request body", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		payload := `{
			"product": {
				"barcode": "722252601025",
				"name": "Quest Protein Bar - Chocolate Chip Cookie Dough",
				"brand": "Quest Nutrition",
				"category": "health_food",
				"price": 2.49,
				"serving_size": "2.12 oz (60g)",
				"nutrition": {"calories": 200, "protein": 21, "carbohydrates": 22, "sugar": 1, "fat": 8, "saturated_fat": 3, "sodium": 250, "fiber": 14}
			},
			"user_profile": {"fitness_goals": "muscle_gain", "health_goals": "high protein"}
		}`
		req, _ := http.NewRequest("POST", "/api/v1/evaluate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var evaluation domain.Evaluation
		if err := json.Unmarshal(w.Body.Bytes(), &evaluation); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if evaluation.Product.Name != "Quest Protein Bar - Chocolate Chip Cookie Dough" {
			t.Errorf("product.name = %q", evaluation.Product.Name)
		}
		if evaluation.HealthAnalysis.Score != 80 {
			t.Errorf("health score = %d, want 80", evaluation.HealthAnalysis.Score)
		}
		if evaluation.FitnessAnalysis.Score != 100 {
			t.Errorf("fitness score = %d, want 100", evaluation.FitnessAnalysis.Score)
		}
		if evaluation.Overall.Score != 90 {
			t.Errorf("overall score = %d, want 90", evaluation.Overall.Score)
		}
		if evaluation.Overall.Recommendation != domain.TierHighlyRecommended {
			t.Errorf("recommendation = %q, want %q", evaluation.Overall.Recommendation, domain.TierHighlyRecommended)
		}
		if evaluation.Overall.RecommendationEmoji != "✅" {
			t.Errorf("emoji = %q, want ✅", evaluation.Overall.RecommendationEmoji)
		}
		if evaluation.PriceAnalysis.Rating != domain.PriceExpensive {
			t.Errorf("price rating = %q, want %q", evaluation.PriceAnalysis.Rating, domain.PriceExpensive)
		}
		if !strings.Contains(evaluation.CompanionMessage, "Overall Score: 90/100") {
			t.Errorf("companion message = %q", evaluation.CompanionMessage)
		}
	})

	t.Run("product without nutrition gets neutral scores", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		payload := `{"product": {"name": "Mystery Snack"}}`
		req, _ := http.NewRequest("POST", "/api/v1/evaluate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var evaluation domain.Evaluation
		if err := json.Unmarshal(w.Body.Bytes(), &evaluation); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if evaluation.Overall.Score != 50 {
			t.Errorf("overall score = %d, want 50", evaluation.Overall.Score)
		}
		if evaluation.Overall.Recommendation != domain.TierAcceptable {
			t.Errorf("recommendation = %q, want %q", evaluation.Overall.Recommendation, domain.TierAcceptable)
		}
		if evaluation.PriceAnalysis.Rating != domain.PriceUnknown {
			t.Errorf("price rating = %q, want %q", evaluation.PriceAnalysis.Rating, domain.PriceUnknown)
		}
	})

	t.Run("returns 400 when product is missing", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		payload := `{"user_profile": {"health_goals": "keto"}}`
		req, _ := http.NewRequest("POST", "/api/v1/evaluate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		errorMsg, _ := response["error"].(string)
		if !strings.Contains(errorMsg, "name or barcode") {
			t.Errorf("error = %q", errorMsg)
		}
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		req, _ := http.NewRequest("POST", "/api/v1/evaluate", strings.NewReader(`{invalid json}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestChatEndpoint(t *testing.T) {
	t.Run("returns the generated reply", func(t *testing.T) {
		generator := &stubGenerator{reply: "Protein within an hour of training supports recovery."}
		router := setupTestRouterWithServices(newMockProductSource(), generator)

		payload := `{"message": "When should I eat protein?"}`
		req, _ := http.NewRequest("POST", "/api/v1/chat", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["reply"] != "Protein within an hour of training supports recovery." {
			t.Errorf("reply = %v", response["reply"])
		}
	})

	t.Run("apologizes when generation fails", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		payload := `{"message": "Is this bar any good?"}`
		req, _ := http.NewRequest("POST", "/api/v1/chat", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["reply"] != "I'm having trouble responding right now. Could you try asking again?" {
			t.Errorf("reply = %v", response["reply"])
		}
	})

	t.Run("returns 400 for a blank message", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		payload := `{"message": "   "}`
		req, _ := http.NewRequest("POST", "/api/v1/chat", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestProductEndpoints(t *testing.T) {
	t.Run("returns the scanned product", func(t *testing.T) {
		source := newMockProductSource()
		source.products["722252601025"] = questProduct()
		router := setupTestRouterWithServices(source, failingGenerator())

		req, _ := http.NewRequest("GET", "/api/v1/products/722252601025", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var product domain.Product
		if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if product.Name != "Quest Protein Bar - Chocolate Chip Cookie Dough" {
			t.Errorf("name = %q", product.Name)
		}
		if product.Nutrition.Value("protein") != 21 {
			t.Errorf("protein = %v, want 21", product.Nutrition.Value("protein"))
		}
	})

	t.Run("repeat scans are served from cache", func(t *testing.T) {
		source := newMockProductSource()
		source.products["722252601025"] = questProduct()
		router := setupTestRouterWithServices(source, failingGenerator())

		for i := 0; i < 3; i++ {
			req, _ := http.NewRequest("GET", "/api/v1/products/722252601025", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("scan %d: Status = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}

		if source.lookupCalls != 1 {
			t.Errorf("lookupCalls = %d, want 1", source.lookupCalls)
		}
	})

	t.Run("returns 404 for unknown barcode", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		req, _ := http.NewRequest("GET", "/api/v1/products/99999999", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["error"] != "Product not found" {
			t.Errorf("error = %v, want 'Product not found'", response["error"])
		}
	})

	t.Run("returns 400 for malformed barcode", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		req, _ := http.NewRequest("GET", "/api/v1/products/not-a-barcode", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		errorMsg, _ := response["error"].(string)
		if !strings.Contains(errorMsg, "barcode") {
			t.Errorf("error = %q", errorMsg)
		}
	})

	t.Run("returns 429 when the source is rate limited", func(t *testing.T) {
		source := newMockProductSource()
		source.lookupError = domain.ErrRateLimited
		router := setupTestRouterWithServices(source, failingGenerator())

		req, _ := http.NewRequest("GET", "/api/v1/products/722252601025", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusTooManyRequests {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusTooManyRequests)
		}
	})

	t.Run("returns 502 when the source is down", func(t *testing.T) {
		source := newMockProductSource()
		source.lookupError = domain.ErrSourceUnavailable
		router := setupTestRouterWithServices(source, failingGenerator())

		req, _ := http.NewRequest("GET", "/api/v1/products/722252601025", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["error"] != "Product database temporarily unavailable" {
			t.Errorf("error = %v", response["error"])
		}
	})
}

func TestScanAndEvaluateEndpoint(t *testing.T) {
	t.Run("runs the full pipeline from a barcode", func(t *testing.T) {
		source := newMockProductSource()
		source.products["722252601025"] = questProduct()
		router := setupTestRouterWithServices(source, failingGenerator())

		payload := `{"user_profile": {"fitness_goals": "muscle_gain"}}`
		req, _ := http.NewRequest("POST", "/api/v1/products/722252601025/evaluate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var evaluation domain.Evaluation
		if err := json.Unmarshal(w.Body.Bytes(), &evaluation); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if evaluation.Product.Barcode != "722252601025" {
			t.Errorf("product.barcode = %q", evaluation.Product.Barcode)
		}
		if evaluation.Overall.Score != 90 {
			t.Errorf("overall score = %d, want 90", evaluation.Overall.Score)
		}
		if evaluation.Overall.Recommendation != domain.TierHighlyRecommended {
			t.Errorf("recommendation = %q", evaluation.Overall.Recommendation)
		}
		if evaluation.CompanionMessage == "" {
			t.Error("companion message is empty")
		}
	})

	t.Run("accepts an empty body as an anonymous scan", func(t *testing.T) {
		source := newMockProductSource()
		source.products["722252601025"] = questProduct()
		router := setupTestRouterWithServices(source, failingGenerator())

		req, _ := http.NewRequest("POST", "/api/v1/products/722252601025/evaluate", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("propagates scan failures", func(t *testing.T) {
		router := setupTestRouterWithServices(newMockProductSource(), failingGenerator())

		req, _ := http.NewRequest("POST", "/api/v1/products/99999999/evaluate", strings.NewReader(""))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
