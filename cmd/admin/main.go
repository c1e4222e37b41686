package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"campus/internal/accounts"
	"campus/internal/backend"
	"campus/internal/config"
	"campus/internal/handler"
	"campus/internal/server"
)

func main() {
	cfg := config.Load()
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("admin server failed: %v", err)
	}
}

func run(cfg config.App) error {
	if cfg.Production() && cfg.JWTSecret == config.DevJWTSecret {
		log.Println("warning: JWT_SECRET is the development default")
	}

	stores, err := backend.Open(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	accts := accounts.NewService(stores.Accounts(context.Background()))
	r := handler.NewAdminRouter(handler.Options{
		App:             "admin",
		RateLimitPerMin: cfg.RateLimitPerMin,
		CookieSecure:    cfg.CookieSecure,
		Checks:          stores.Checks(),
	}, accts, stores.Students(), handler.TokenConfig{
		SigningKey: cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		TTL:        cfg.TokenTTL,
	})
	return server.Run("admin", cfg.AdminPort, r)
}
