package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rogerio-castellano/invoice-pricelist/internal/http/ban"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
	"github.com/rogerio-castellano/invoice-pricelist/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterHandler godoc
// @Summary Register a new user and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body RegisterRequest true "name, email and password"
// @Success 201 {object} AuthResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case req.Name == "" || req.Email == "" || req.Password == "":
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	case utf8.RuneCountInString(name) < 2:
		writeError(w, http.StatusBadRequest, "Name must be at least 2 characters")
		return
	case len(req.Password) < 6:
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	case !emailPattern.MatchString(email):
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		obs.Logger.Error("hash password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user, err := userRepo.CreateUser(r.Context(), models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		obs.Logger.Error("create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := tokens.GenerateToken(user)
	if err != nil {
		obs.Logger.Error("generate token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	obs.Logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, AuthResult{Token: token, User: user.Summary()})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "email and password"
// @Success 200 {object} AuthResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 429 {object} ErrorResponse "Too many failed attempts"
// @Router /api/auth/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	banned, err := loginGuard.IsBanned(r.Context(), email)
	if err != nil {
		obs.Logger.Error("ban lookup failed", "error", err)
	}
	if banned {
		writeError(w, http.StatusTooManyRequests, "Too many failed login attempts, try again later")
		return
	}

	user, err := userRepo.GetByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			obs.Logger.Error("lookup user failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		loginFailed(w, r, email)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		loginFailed(w, r, email)
		return
	}
	if err := loginGuard.Reset(r.Context(), email); err != nil {
		obs.Logger.Warn("reset login strikes failed", "error", err)
	}

	token, err := tokens.GenerateToken(user)
	if err != nil {
		obs.Logger.Error("generate token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, AuthResult{Token: token, User: user.Summary()})
}

func loginFailed(w http.ResponseWriter, r *http.Request, email string) {
	if _, err := loginGuard.RecordFailure(r.Context(), email, r.URL.Path); err != nil {
		obs.Logger.Error("record login failure failed", "error", err)
	}
	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

// LogoutHandler godoc
// @Summary Revoke the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	if err := denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		obs.Logger.Error("revoke token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

// GetLockoutsHandler godoc
// @Summary List lockouts of the signed-in account
// @Description Returns the times this account's email was locked out after repeated failed logins.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ban.LogEntry
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/lockouts [get]
func GetLockoutsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	entries, err := loginGuard.RecentBans(r.Context())
	if err != nil {
		obs.Logger.Error("read ban log failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	email := strings.ToLower(claims.Email)
	own := []ban.LogEntry{}
	for _, e := range entries {
		if e.Target == email {
			own = append(own, e)
		}
	}
	writeJSON(w, http.StatusOK, own)
}
