package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/auth"
	"github.com/rogerio-castellano/invoice-pricelist/internal/db"
	api "github.com/rogerio-castellano/invoice-pricelist/internal/http"
	handler "github.com/rogerio-castellano/invoice-pricelist/internal/http/handlers"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "integration-admin@example.com"
	adminPassword = "secret-password"
)

var (
	token    string
	database *sql.DB
)

// TestMain runs the suite against the database in DATABASE_URL and skips it
// when no database is configured.
func TestMain(m *testing.M) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL not set, skipping integration tests")
		os.Exit(0)
	}

	var err error
	database, err = db.Connect(dsn)
	if err != nil {
		fmt.Printf("could not connect to database: %v\n", err)
		os.Exit(1)
	}
	if err := db.Migrate(context.Background(), database); err != nil {
		fmt.Printf("could not apply schema: %v\n", err)
		os.Exit(1)
	}

	setupTestRepos(adminPassword)
	token, err = generateToken(newRouter(), adminEmail, adminPassword)
	if err != nil {
		fmt.Printf("error generating token: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	clearAllProducts()
	_, _ = database.Exec("DELETE FROM users WHERE email = $1", adminEmail)
	_ = database.Close()
	os.Exit(code)
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{})
}

func setupTestRepos(password string) {
	userRepo := repo.NewPostgresUserRepository(database)
	api.Wire(api.Dependencies{
		Products:  repo.NewPostgresProductRepository(database),
		Users:     userRepo,
		Languages: repo.NewPostgresLanguageRepository(database),
		Tokens:    auth.NewTokenManager("integration-secret", time.Hour),
		Denylist:  auth.NewMemoryDenylist(),
	})

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_, err := userRepo.CreateUser(context.Background(), models.User{
		Name:         "Integration Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
	})
	if err != nil && !errors.Is(err, repo.ErrDuplicatedValueUnique) {
		fmt.Printf("could not seed admin user: %v\n", err)
	}
}

func clearAllProducts() {
	if _, err := database.Exec("DELETE FROM products"); err != nil {
		fmt.Printf("failed to clear products: %v\n", err)
	}
}

func generateToken(r http.Handler, email, password string) (string, error) {
	w := sendJSON(r, http.MethodPost, "/api/auth/login", "", handler.LoginRequest{Email: email, Password: password})
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", w.Code, w.Body.String())
	}
	var resp handler.AuthResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func sendJSON(r http.Handler, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
