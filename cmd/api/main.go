package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/liftcare-id/liftcare/internal/config"
	"github.com/liftcare-id/liftcare/internal/database"
	"github.com/liftcare-id/liftcare/internal/draft"
	"github.com/liftcare-id/liftcare/internal/handlers"
	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/ratelimit"
	"github.com/liftcare-id/liftcare/internal/utils"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in the shutdown handler below

	// 3. Synchronize schema
	log.Println("Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Lift{},
		&models.Schedule{},
		&models.QRToken{},
		&models.Report{},
		&models.Draft{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seedSuperadmin(db); err != nil {
		log.Printf("Seed warning: %v", err)
	}

	// 4. Wire the handler dependencies
	limiter := ratelimit.NewSlidingWindow(10, time.Minute)
	stopPruning := make(chan struct{})
	limiter.StartPruning(5*time.Minute, stopPruning)

	drafts := draft.NewGormStore(db.DB)
	router := handlers.NewRouter(db, cfg, limiter, drafts)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(splitOrigins(cfg.CORSOrigin)),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillahandlers.AllowCredentials(),
	)

	var handler http.Handler = router
	handler = cors(handler)
	handler = middleware.SecurityHeaders(cfg.IsProduction())(handler)
	handler = middleware.Recover(cfg.IsProduction())(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// 5. Start server with graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("LiftCare API running on port %s [%s]", cfg.Port, cfg.AppEnv)
		log.Printf("   CORS Origin: %s", cfg.CORSOrigin)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	close(stopPruning)

	log.Println("Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}

// seedSuperadmin creates the initial account on an empty install
func seedSuperadmin(db *database.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Super Administrator",
		Email:    "superadmin@liftcare.com",
		Password: hash,
		Role:     models.RoleSuperadmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Database initialized with Super Admin account")
	return nil
}

// splitOrigins supports a comma-separated CORS_ORIGIN list
func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
