package http

import (
	"github.com/rogerio-castellano/invoice-pricelist/internal/auth"
	"github.com/rogerio-castellano/invoice-pricelist/internal/http/ban"
	"github.com/rogerio-castellano/invoice-pricelist/internal/http/handlers"
	"github.com/rogerio-castellano/invoice-pricelist/internal/repo"
)

// Dependencies groups everything the handlers need.
type Dependencies struct {
	Products  repo.ProductRepository
	Users     repo.UserRepository
	Languages repo.LanguageRepository
	Tokens    *auth.TokenManager
	Denylist  auth.Denylist

	// LoginGuard locks out emails after repeated failed logins.
	LoginGuard ban.Tracker
}

// Wire installs the dependencies into the handlers package.
func Wire(d Dependencies) {
	handlers.SetProductRepo(d.Products)
	handlers.SetUserRepo(d.Users)
	handlers.SetLanguageRepo(d.Languages)
	handlers.SetTokenManager(d.Tokens)
	if d.Denylist != nil {
		handlers.SetDenylist(d.Denylist)
	}
	if d.LoginGuard != nil {
		handlers.SetLoginGuard(d.LoginGuard)
	}
}
