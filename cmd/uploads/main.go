package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"campus/internal/backend"
	"campus/internal/config"
	"campus/internal/handler"
	"campus/internal/server"
	"campus/internal/uploads"
)

func main() {
	cfg := config.Load()
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("uploads server failed: %v", err)
	}
}

func run(cfg config.App) error {
	stores, err := backend.Open(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	disk, err := uploads.NewDisk(cfg.UploadDir)
	if err != nil {
		return err
	}
	rules := uploads.DefaultRules()
	rules.MaxFiles = cfg.UploadMaxFiles
	rules.MaxFileBytes = cfg.UploadMaxFileBytes

	svc := uploads.NewService(rules, disk, stores.Registrations(context.Background()))
	log.Printf("storing uploads in %s (max %d files, %d bytes each)", disk.Dir(), rules.MaxFiles, rules.MaxFileBytes)

	r := handler.NewUploadsRouter(handler.Options{
		App:             "uploads",
		RateLimitPerMin: cfg.RateLimitPerMin,
		CookieSecure:    cfg.CookieSecure,
		Checks:          stores.Checks(),
	}, svc)
	return server.Run("uploads", cfg.UploadsPort, r)
}
