package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/logger"
	"estate/internal/middleware"
	"estate/internal/model"
	"estate/internal/observability"
	"estate/internal/repository"
	"estate/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Discard()
	metrics := observability.New()

	auth := service.NewAuthService("admin@estate.com", "test-secret", time.Hour, log)
	svcs := Services{
		Search:     service.NewSearchService(service.NewQueryParser(), nil, model.SearchCatalog(), service.NoDelay{}, 5, log, metrics),
		Chat:       service.NewChatService(service.NewDispatcher(), nil, service.ChatOptions{}, log, metrics),
		Valuation:  service.NewValuationService(service.NoDelay{}, 2024, log, metrics),
		Contact:    service.NewContactService(service.NoDelay{}, log, metrics),
		Newsletter: service.NewNewsletterService(service.NoDelay{}, log, metrics),
		Market:     service.NewMarketService(service.NoDelay{}),
		Catalog:    service.NewCatalogService(repository.NewMemoryCatalog(model.DefaultCatalog()), log),
		Auth:       auth,
	}
	router := NewRouter(svcs, RouterOptions{
		AllowedOrigins: "*",
		Build:          BuildInfo{Version: "test"},
		Logger:         log,
		Metrics:        metrics,
		RateLimiter:    middleware.NewRateLimiter(0, 0, log),
	})
	return &testServer{router: router, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	resp, err := s.auth.Login(model.LoginRequest{Email: email, Password: "pw"})
	require.NoError(t, err)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/version", nil, "")
	assert.Equal(t, "test", decode[map[string]any](t, rec)["version"])

	s.do(t, http.MethodPost, "/api/v1/search", gin.H{"query": "2 bed"}, "")
	rec = s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `estate_searches_total{source="rules"} 1`)
}

func TestSearchEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/search", gin.H{"query": "Homes under $500k", "session_id": "abc"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.SearchResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []string{"Homes under $500k"}, resp.History)

	rec = s.do(t, http.MethodPost, "/api/v1/search", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/search", gin.H{"query": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/search/suggestions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[model.SearchSuggestions](t, rec).Popular, 6)
}

func sseEvents(body string) []string {
	var events []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
	}
	return events
}

func TestSearchStream(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/search/stream", gin.H{"query": "2 bed"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"start", "parsing", "intent", "searching", "results", "done"}, sseEvents(rec.Body.String()))

	rec = s.do(t, http.MethodPost, "/api/v1/search/stream", gin.H{"query": " "}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/chat/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decode[model.ChatSession](t, rec)
	require.Len(t, sess.Messages, 1)

	base := "/api/v1/chat/sessions/" + sess.SessionID
	rec = s.do(t, http.MethodPost, base+"/messages", gin.H{"message": "What are the market trends?"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode[model.ChatReply](t, rec)
	assert.Equal(t, model.TopicMarket, reply.Topic)

	rec = s.do(t, http.MethodGet, base+"/messages", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Messages []model.ChatMessage `json:"messages"`
	}](t, rec)
	assert.Len(t, history.Messages, 3)

	rec = s.do(t, http.MethodPost, "/api/v1/chat/sessions/nope/messages", gin.H{"message": "hi"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/messages", gin.H{"message": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/chat/quick-actions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]string](t, rec)["actions"], 5)
}

func TestChatStream(t *testing.T) {
	s := newTestServer(t)
	sess := decode[model.ChatSession](t, s.do(t, http.MethodPost, "/api/v1/chat/sessions", nil, ""))
	path := "/api/v1/chat/sessions/" + sess.SessionID + "/stream"

	rec := s.do(t, http.MethodPost, path, gin.H{"message": "Contact a real estate agent"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"typing", "message", "contact_form", "done"}, sseEvents(rec.Body.String()))

	rec = s.do(t, http.MethodPost, path, gin.H{"message": "hello"}, "")
	assert.Equal(t, []string{"typing", "message", "done"}, sseEvents(rec.Body.String()))

	rec = s.do(t, http.MethodPost, "/api/v1/chat/sessions/nope/stream", gin.H{"message": "hi"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/valuations", gin.H{
		"square_footage": "2000", "bedrooms": "3", "bathrooms": "2", "year_built": "2024", "location": "Austin",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(500_000), decode[model.Valuation](t, rec).Estimated)

	rec = s.do(t, http.MethodPost, "/api/v1/valuations", gin.H{"square_footage": "2000"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"bedrooms", "bathrooms", "location"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPost, "/api/v1/mortgage", gin.H{"home_price": 500000, "down_payment": 100000, "loan_term": 30, "interest_rate": 3.5}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1796.18, decode[model.MortgageQuote](t, rec).MonthlyPayment, 0.01)

	rec = s.do(t, http.MethodPost, "/api/v1/mortgage", gin.H{"home_price": 100000, "down_payment": 200000}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/mortgage", gin.H{"home_price": 500000, "interest_rate": 1e6}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"interest_rate"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPost, "/api/v1/mortgage", gin.H{"loan_term": 100000}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"loan_term"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPost, "/api/v1/contact", gin.H{"name": "Jane", "email": "jane@example.com", "message": "Hi"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ContactSuccessMessage, decode[model.ContactReceipt](t, rec).Message)

	rec = s.do(t, http.MethodPost, "/api/v1/contact", gin.H{"email": "jane@example.com"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"name", "message"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPost, "/api/v1/newsletter", gin.H{"email": "jane@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.NewsletterSuccessMessage, decode[model.NewsletterReceipt](t, rec).Message)

	rec = s.do(t, http.MethodPost, "/api/v1/newsletter", gin.H{"email": "not-an-email"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"email"}, decode[map[string]any](t, rec)["fields"])
}

func TestMarketEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/recommendations", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[model.Recommendations](t, rec).Properties, 3)

	rec = s.do(t, http.MethodGet, "/api/v1/market?location=Downtown&type=condo", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Downtown", decode[model.MarketAnalysis](t, rec).Location)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "admin@estate.com")
	member := s.token(t, "jane@example.com")

	rec := s.do(t, http.MethodGet, "/api/v1/properties?type=apartment", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	browse := decode[model.BrowseResponse](t, rec)
	assert.Equal(t, 1, browse.Showing)
	assert.Equal(t, 2, browse.Total)

	rec = s.do(t, http.MethodGet, "/api/v1/properties/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Skyline Haven", decode[model.Property](t, rec).Title)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/properties/99", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/properties/abc", nil, "").Code)

	input := gin.H{"title": "Ocean Breeze", "price": "425000", "location": "Malibu", "type": "House", "bedrooms": 3, "bathrooms": 2}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/v1/properties", input, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/v1/properties", input, member).Code)

	rec = s.do(t, http.MethodPost, "/api/v1/properties", gin.H{"title": "x", "price": "1", "location": "y", "type": "castle"}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"type"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPost, "/api/v1/properties", gin.H{"title": "   ", "price": "100000", "location": "   ", "type": "house"}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"title", "location"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPut, "/api/v1/properties/1", gin.H{"title": "Skyline Haven", "price": "250000", "location": " ", "type": "house"}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"location"}, decode[map[string]any](t, rec)["fields"])

	rec = s.do(t, http.MethodPost, "/api/v1/properties", input, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Property](t, rec)
	assert.Equal(t, "$425,000", created.Price)
	assert.Equal(t, model.PropertyTypeHouse, created.Type)

	path := "/api/v1/properties/" + strconv.FormatInt(created.ID, 10)
	input["price"] = "450000"
	rec = s.do(t, http.MethodPut, path, input, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "$450,000", decode[model.Property](t, rec).Price)

	rec = s.do(t, http.MethodGet, "/api/v1/properties/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[model.CatalogStats](t, rec).Total)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, input, admin).Code)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", gin.H{"name": "Jane", "email": "jane@example.com", "password": "s3cret"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	signup := decode[model.AuthResponse](t, rec)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	rec = s.do(t, http.MethodPost, "/api/v1/auth/signup", gin.H{"name": "Jane", "email": "jane@example.com", "password": "again"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "jane@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "not-an-email", "password": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, signup.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane", decode[model.User](t, rec).Name)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "").Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/auth/me", gin.H{"name": "Jane Doe", "bio": "Looking in Austin"}, signup.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.AuthResponse](t, rec)
	assert.Equal(t, service.ProfileUpdatedMessage, updated.Message)
	assert.Equal(t, "Jane Doe", updated.User.Name)
	assert.Equal(t, "Looking in Austin", updated.User.Bio)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, updated.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane Doe", decode[model.User](t, rec).Name)

	rec = s.do(t, http.MethodPatch, "/api/v1/auth/me", gin.H{"email": "bad"}, updated.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPatch, "/api/v1/auth/me", gin.H{"name": "   "}, updated.Token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"name"}, decode[map[string]any](t, rec)["fields"])
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPatch, "/api/v1/auth/me", gin.H{"name": "x"}, "").Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
