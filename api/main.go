package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/auth"
	"github.com/rogerio-castellano/invoice-pricelist/internal/config"
	"github.com/rogerio-castellano/invoice-pricelist/internal/db"
	api "github.com/rogerio-castellano/invoice-pricelist/internal/http"
	"github.com/rogerio-castellano/invoice-pricelist/internal/http/ban"
	rl "github.com/rogerio-castellano/invoice-pricelist/internal/http/rate_limiter"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
	"github.com/rogerio-castellano/invoice-pricelist/internal/redissvc"
	"github.com/rogerio-castellano/invoice-pricelist/internal/repo"
)

// @title Price List API
// @version 1.0
// @description REST API for the invoicing price list: products and token-based auth.
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.LoadServer(*configFile)
	if err != nil {
		obs.Logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	obs.InitLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisService, err := redissvc.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		obs.Logger.Error("could not connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisService.Close()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		obs.Logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		obs.Logger.Error("could not apply schema", "error", err)
		os.Exit(1)
	}

	loginGuard := ban.NewRedisTracker(redisService, ban.Policy{
		MaxStrikes: cfg.LoginMaxFailures,
		Window:     cfg.LoginWindow,
		BanFor:     cfg.LoginBanDuration,
	})

	api.Wire(api.Dependencies{
		Products:   repo.NewPostgresProductRepository(database),
		Users:      repo.NewPostgresUserRepository(database),
		Languages:  repo.NewPostgresLanguageRepository(database),
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Denylist:   auth.NewRedisDenylist(redisService),
		LoginGuard: loginGuard,
	})

	limiter := rl.New(cfg.AuthRateLimit, cfg.AuthRateBurst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			AuthLimiter:    limiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	obs.Logger.Info("shutdown_signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
