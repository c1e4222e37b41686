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
		log.Fatalf("portal server failed: %v", err)
	}
}

func run(cfg config.App) error {
	stores, err := backend.Open(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	sessions, err := stores.Sessions(cfg)
	if err != nil {
		return err
	}
	log.Printf("sessions kept in %s for %s", cfg.SessionBackend, cfg.SessionTTL)

	accts := accounts.NewService(stores.Accounts(context.Background()))
	r := handler.NewPortalRouter(handler.Options{
		App:             "portal",
		RateLimitPerMin: cfg.RateLimitPerMin,
		CookieSecure:    cfg.CookieSecure,
		Checks:          stores.Checks(),
	}, accts, sessions, cfg.SessionTTL)
	return server.Run("portal", cfg.PortalPort, r)
}
