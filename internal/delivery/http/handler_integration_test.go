package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foodiebot/backend/config"
	"github.com/foodiebot/backend/internal/domain"
	"github.com/foodiebot/backend/internal/infrastructure/cache"
	"github.com/foodiebot/backend/internal/infrastructure/sqlite"
	"github.com/foodiebot/backend/internal/observability"
	"github.com/foodiebot/backend/internal/usecase"
)

const testAdminToken = "letmein"

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testCatalog() []domain.Product {
	return []domain.Product{
		{ProductID: "FF001", Name: "Spicy Korean Taco", Category: domain.CategoryTacosWraps, Description: "Gochujang beef, kimchi slaw",
			Price: 7.5, PopularityScore: 80, SpiceLevel: 8, MoodTags: []string{"adventurous"}, ImageURL: "https://img/ff001.png"},
		{ProductID: "FF002", Name: "Classic Burger", Category: domain.CategoryBurgers, Description: "Beef patty and cheddar",
			Price: 8.99, PopularityScore: 40},
		{ProductID: "FF003", Name: "Garden Salad", Category: domain.CategorySalads, Description: "Fresh greens",
			Price: 6.25, PopularityScore: 20, DietaryTags: []string{domain.TagVegan, domain.TagGlutenFree}},
		{ProductID: "FF004", Name: "Lemon Water", Category: domain.CategoryBeverages, Price: 1.99},
	}
}

// setupTestRouter wires the full stack on an in-memory database
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	products := sqlite.NewProductRepository(db)
	for _, p := range testCatalog() {
		require.NoError(t, products.Create(ctx, &p))
	}
	conversations := sqlite.NewConversationRepository(db)
	messages := sqlite.NewMessageRepository(db)

	memCache := cache.NewMemoryCache()
	t.Cleanup(func() { _ = memCache.Close() })

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	catalog := usecase.NewCatalogService(products, memCache, usecase.CatalogServiceConfig{AdminToken: testAdminToken}, logger, metrics)
	handler := NewHandler(
		usecase.NewConversationService(conversations, messages, catalog, logger, metrics),
		catalog,
		usecase.NewAnalyticsService(products, conversations, messages),
		logger,
	)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Admin: config.AdminConfig{Token: testAdminToken},
	}
	return SetupRouter(cfg, handler, logger, metrics, registry)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func startConversation(t *testing.T, router *gin.Engine) int64 {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/v1/conversations?user_name=alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]int64](t, w)
	require.NotZero(t, resp["conversation_id"])
	return resp["conversation_id"]
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("returns healthy status", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[map[string]string](t, w)
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "foodiebot-backend", resp["service"])
		assert.NotEmpty(t, resp["version"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			w := doRequest(router, method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, method)
		}
	})
}

func TestConversationFlow(t *testing.T) {
	router := setupTestRouter(t)
	id := startConversation(t, router)
	path := "/api/v1/conversations/" + itoa(id) + "/messages"

	t.Run("scores a message and returns matches", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, path, `{"text":"Is this spicy and under $10?"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[MessageResponse](t, w)
		assert.Equal(t, 30, resp.InterestScore)
		require.NotEmpty(t, resp.Matches)
		assert.LessOrEqual(t, len(resp.Matches), usecase.ConversationMatchLimit)
		assert.Equal(t, "FF001", resp.Matches[0].ProductID)
		assert.Contains(t, resp.BotText, "Interest score: 30%")
		for _, m := range resp.Matches {
			assert.Equal(t, roundScore(m.Score), m.Score)
			assert.Greater(t, m.Score, 0.0)
		}

		raw := decode[map[string]any](t, w)
		signals, ok := raw["signals"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 10.0, signals["budget_mention"])
	})

	t.Run("history holds both sides", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			ConversationID int64            `json:"conversation_id"`
			Messages       []domain.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, id, resp.ConversationID)
		require.Len(t, resp.Messages, 2)
		assert.Equal(t, domain.SenderUser, resp.Messages[0].Sender)
		assert.Equal(t, domain.SenderBot, resp.Messages[1].Sender)
		require.NotNil(t, resp.Messages[1].InterestScore)
		assert.Equal(t, 30, *resp.Messages[1].InterestScore)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name       string
			method     string
			path       string
			body       string
			wantStatus int
		}{
			{name: "non-numeric id", method: http.MethodPost, path: "/api/v1/conversations/abc/messages", body: `{"text":"hi"}`, wantStatus: http.StatusBadRequest},
			{name: "missing text", method: http.MethodPost, path: path, body: `{}`, wantStatus: http.StatusBadRequest},
			{name: "null text", method: http.MethodPost, path: path, body: `{"text":null}`, wantStatus: http.StatusBadRequest},
			{name: "invalid json", method: http.MethodPost, path: path, body: `{"text":`, wantStatus: http.StatusBadRequest},
			{name: "unknown conversation", method: http.MethodPost, path: "/api/v1/conversations/9999/messages", body: `{"text":"hi"}`, wantStatus: http.StatusNotFound},
			{name: "unknown conversation history", method: http.MethodGet, path: "/api/v1/conversations/9999/messages", wantStatus: http.StatusNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doRequest(router, tt.method, tt.path, tt.body)
				assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
				assert.Contains(t, decode[map[string]string](t, w), "error")
			})
		}
	})
}

func TestEmptyMessageIsAccepted(t *testing.T) {
	router := setupTestRouter(t)
	id := startConversation(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/conversations/"+itoa(id)+"/messages", `{"text":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[MessageResponse](t, w)
	assert.Equal(t, 0, resp.InterestScore)
	// Keyword and popularity terms still apply without any signals
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "FF001", resp.Matches[0].ProductID)
}

func TestConversationDefaultsToGuest(t *testing.T) {
	router := setupTestRouter(t)
	w := doRequest(router, http.MethodPost, "/api/v1/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, decode[map[string]int64](t, w)["conversation_id"])
}

func TestSearchEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
	}{
		{name: "no filters ranks by popularity", query: "", wantStatus: http.StatusOK, wantIDs: []string{"FF001", "FF002", "FF003", "FF004"}},
		{name: "category is case-insensitive", query: "?category=burgers", wantStatus: http.StatusOK, wantIDs: []string{"FF002"}},
		{name: "price ceiling", query: "?max_price=7", wantStatus: http.StatusOK, wantIDs: []string{"FF003", "FF004"}},
		{name: "text matches description", query: "?q=KIMCHI", wantStatus: http.StatusOK, wantIDs: []string{"FF001"}},
		{name: "nothing found", query: "?q=sushi", wantStatus: http.StatusOK, wantIDs: []string{}},
		{name: "bad price", query: "?max_price=cheap", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/v1/search"+tt.query, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			results := decode[[]MatchResponse](t, w)
			ids := make([]string, 0, len(results))
			for _, r := range results {
				ids = append(ids, r.ProductID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	t.Run("score is popularity over ten", func(t *testing.T) {
		results := decode[[]MatchResponse](t, doRequest(router, http.MethodGet, "/api/v1/search?q=taco", ""))
		require.Len(t, results, 1)
		assert.Equal(t, 8.0, results[0].Score)
		assert.Equal(t, "https://img/ff001.png", results[0].ImageURL)
	})
}

func TestProductEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("get product", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/products/FF003", "")
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[domain.Product](t, w)
		assert.Equal(t, "Garden Salad", p.Name)
		assert.Equal(t, []string{domain.TagVegan, domain.TagGlutenFree}, p.DietaryTags)

		assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/v1/products/NOPE", "").Code)
	})

	newProduct := `{"product_id":"FF100","name":"Veggie Wrap","category":"Tacos & Wraps","price":6.5,"description":"Hummus and peppers"}`

	t.Run("admin create", func(t *testing.T) {
		tests := []struct {
			name       string
			token      string
			body       string
			wantStatus int
		}{
			{name: "wrong token", token: "nope", body: newProduct, wantStatus: http.StatusForbidden},
			{name: "missing token", token: "", body: newProduct, wantStatus: http.StatusForbidden},
			{name: "missing price", token: testAdminToken, body: `{"product_id":"FF101","name":"X"}`, wantStatus: http.StatusBadRequest},
			{name: "negative price", token: testAdminToken, body: `{"product_id":"FF101","name":"X","price":-1}`, wantStatus: http.StatusBadRequest},
			{name: "unknown category", token: testAdminToken, body: `{"product_id":"FF101","name":"X","price":3,"category":"Sushi"}`, wantStatus: http.StatusBadRequest},
			{name: "created", token: testAdminToken, body: newProduct, wantStatus: http.StatusCreated},
			{name: "duplicate", token: testAdminToken, body: newProduct, wantStatus: http.StatusConflict},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doRequest(router, http.MethodPost, "/api/v1/admin/products?token="+tt.token, tt.body)
				assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			})
		}
	})

	t.Run("created product defaults popularity and is searchable", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/products/FF100", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.DefaultPopularityScore, decode[domain.Product](t, w).PopularityScore)

		results := decode[[]MatchResponse](t, doRequest(router, http.MethodGet, "/api/v1/search?q=hummus", ""))
		require.Len(t, results, 1)
		assert.Equal(t, "FF100", results[0].ProductID)
	})
}

func TestAnalyticsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	id := startConversation(t, router)
	doRequest(router, http.MethodPost, "/api/v1/conversations/"+itoa(id)+"/messages", `{"text":"burger"}`)

	w := doRequest(router, http.MethodGet, "/api/v1/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode[domain.Analytics](t, w)
	assert.Equal(t, 4, summary.TotalProducts)
	assert.Equal(t, 1, summary.TotalConversations)
	assert.Equal(t, 2, summary.TotalMessages)
	require.Len(t, summary.TopProducts, 4)
	assert.Equal(t, "FF001", summary.TopProducts[0].ProductID)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	doRequest(router, http.MethodGet, "/api/v1/search", "")

	w := doRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodiebot_search_requests_total")
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "http://localhost:8501")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8501", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAPIVersioning(t *testing.T) {
	router := setupTestRouter(t)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/search", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/v2/search", "").Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
