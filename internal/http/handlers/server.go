package handlers

import (
	"github.com/rogerio-castellano/invoice-pricelist/internal/auth"
	"github.com/rogerio-castellano/invoice-pricelist/internal/http/ban"
	repo "github.com/rogerio-castellano/invoice-pricelist/internal/repo"
)

var (
	productRepo  repo.ProductRepository
	userRepo     repo.UserRepository
	languageRepo repo.LanguageRepository

	tokens   *auth.TokenManager
	denylist auth.Denylist = auth.NewMemoryDenylist()

	loginGuard ban.Tracker = ban.NewMemoryTracker(ban.Policy{})
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetLanguageRepo(r repo.LanguageRepository) {
	languageRepo = r
}

func SetTokenManager(m *auth.TokenManager) {
	tokens = m
}

func SetDenylist(d auth.Denylist) {
	denylist = d
}

func SetLoginGuard(t ban.Tracker) {
	loginGuard = t
}

// Tokens exposes the configured token manager to the auth middleware.
func Tokens() *auth.TokenManager {
	return tokens
}

// RevocationList exposes the configured denylist to the auth middleware.
func RevocationList() auth.Denylist {
	return denylist
}
