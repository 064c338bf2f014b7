package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/auth"
	api "github.com/rogerio-castellano/invoice-pricelist/internal/http"
	rl "github.com/rogerio-castellano/invoice-pricelist/internal/http/rate_limiter"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
	"github.com/rogerio-castellano/invoice-pricelist/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens := auth.NewTokenManager("middleware-secret", time.Hour)
	api.Wire(api.Dependencies{
		Products:  repo.NewInMemoryProductRepository(),
		Users:     repo.NewInMemoryUserRepository(),
		Languages: repo.NewStaticLanguageRepository(),
		Tokens:    tokens,
		Denylist:  auth.NewMemoryDenylist(),
	})
	return tokens
}

func TestAuthMiddleware(t *testing.T) {
	tokens := setup(t)

	var seenUserID string
	h := api.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = api.GetUserID(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	valid, err := tokens.GenerateToken(models.User{ID: "user-1", Email: "a@b.se", Name: "Anna"})
	require.NoError(t, err)

	expiredManager := auth.NewTokenManager("middleware-secret", -time.Minute)
	expired, err := expiredManager.GenerateToken(models.User{ID: "user-1"})
	require.NoError(t, err)

	foreign, err := auth.NewTokenManager("other-secret", time.Hour).GenerateToken(models.User{ID: "user-1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "valid", header: "Bearer " + valid, code: http.StatusNoContent},
		{name: "missing", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, code: http.StatusUnauthorized},
		{name: "foreign signature", header: "Bearer " + foreign, code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusNoContent {
				assert.Equal(t, "user-1", seenUserID)
			} else {
				assert.Empty(t, seenUserID)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRateLimitOnAuthRoutes(t *testing.T) {
	setup(t)
	r := api.NewRouter(api.RouterConfig{AuthLimiter: rl.New(0.001, 2)})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.7:4242"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.NotEqual(t, http.StatusTooManyRequests, codes[0])
	assert.NotEqual(t, http.StatusTooManyRequests, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.8:4242"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code, "other visitors keep their own bucket")
}

func TestWithRequestID(t *testing.T) {
	setup(t)
	r := api.NewRouter(api.RouterConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get("X-Request-Id"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	setup(t)
	r := api.NewRouter(api.RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAccessLogCarriesUserID(t *testing.T) {
	tokens := setup(t)
	var logs bytes.Buffer
	obs.InitLogger(&logs, "info")
	t.Cleanup(func() { obs.InitLogger(os.Stdout, "info") })

	tok, err := tokens.GenerateToken(models.User{ID: "user-7", Email: "g@b.se", Name: "Greta"})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{})
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/languages", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var lines []map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var line map[string]any
		require.NoError(t, json.Unmarshal(raw, &line))
		if line["msg"] == "http_request" {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "/api/products", lines[0]["path"])
	assert.Equal(t, "user-7", lines[0]["user_id"])
	assert.Equal(t, "", lines[1]["user_id"], "anonymous requests have no user")
}
