package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/rogerio-castellano/invoice-pricelist/docs"
	"github.com/rogerio-castellano/invoice-pricelist/internal/http/handlers"
	rl "github.com/rogerio-castellano/invoice-pricelist/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RouterConfig carries the optional parts of the HTTP surface.
type RouterConfig struct {
	AllowedOrigins []string
	AuthLimiter    *rl.Limiter
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(WithLogging)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Price list API is running"}`))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", handlers.GetLanguagesHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthLimiter != nil {
					r.Use(RateLimit(cfg.AuthLimiter))
				}
				r.Post("/login", handlers.LoginHandler)
				r.Post("/register", handlers.RegisterHandler)
			})
			r.With(AuthMiddleware).Post("/logout", handlers.LogoutHandler)
			r.With(AuthMiddleware).Get("/lockouts", handlers.GetLockoutsHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)
			r.Get("/products", handlers.GetProductsHandler)
			r.Get("/products/search", handlers.SearchProductsHandler)
			r.Post("/products", handlers.CreateProductHandler)
			r.Put("/products/{id}", handlers.UpdateProductHandler)
		})
	})

	return r
}
