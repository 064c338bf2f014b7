package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/auth"
	api "github.com/rogerio-castellano/invoice-pricelist/internal/http"
	handler "github.com/rogerio-castellano/invoice-pricelist/internal/http/handlers"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret-password"
)

var (
	token       string
	productRepo *repo.InMemoryProductRepository
	userRepo    *repo.InMemoryUserRepository
)

func init() {
	setupTestRepos(adminPassword)
	r := newRouter()

	var err error
	token, err = generateToken(r, adminEmail, adminPassword)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{})
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	userRepo = repo.NewInMemoryUserRepository()

	api.Wire(api.Dependencies{
		Products:  productRepo,
		Users:     userRepo,
		Languages: repo.NewStaticLanguageRepository(),
		Tokens:    auth.NewTokenManager("test-secret", time.Hour),
		Denylist:  auth.NewMemoryDenylist(),
	})

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_, _ = userRepo.CreateUser(context.Background(), models.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
	})
}

func clearAllProducts() {
	productRepo.Clear()
}

func generateToken(r http.Handler, email, password string) (string, error) {
	w := postJSON(r, "/api/auth/login", "", handler.LoginRequest{Email: email, Password: password})
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", w.Code, w.Body.String())
	}

	var resp handler.AuthResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func postJSON(r http.Handler, path, bearer string, payload any) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPost, path, bearer, payload)
}

func sendJSON(r http.Handler, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getWithToken(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p map[string]any) *httptest.ResponseRecorder {
	return postJSON(r, "/api/products", token, p)
}

func updateProduct(r http.Handler, id string, p map[string]any) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPut, "/api/products/"+id, token, p)
}

func validProduct(name string) map[string]any {
	return map[string]any{
		"product":     name,
		"inPrice":     "900",
		"price":       "1500.50",
		"unit":        "piece",
		"inStock":     "25",
		"description": "High-end item",
	}
}

func decodeProduct(w *httptest.ResponseRecorder) (handler.ProductResponse, error) {
	var resp handler.ProductResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	return resp, err
}
