package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/walletcore/backend/docs"
	"github.com/walletcore/backend/internal/config"
	"github.com/walletcore/backend/internal/database"
	"github.com/walletcore/backend/internal/handlers"
	mW "github.com/walletcore/backend/internal/middleware"
	"github.com/walletcore/backend/internal/services"
	"github.com/walletcore/backend/internal/store"
)

// @title Balance Ledger API
// @version 1.0
// @description Per-user balance ledger with an immutable transaction history
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("seed.account_id", "SEED_ACCOUNT_ID")
	viper.BindEnv("seed.initial_balance", "SEED_INITIAL_BALANCE")
	viper.BindEnv("ledger.balance_cache_ttl", "BALANCE_CACHE_TTL")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"

	// Initialize storage
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	ledgerStore := store.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := ledgerStore.InitSchema(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to create schema: %v", err)
	}

	// Seed the default account. Idempotent, so restarts are safe.
	ledgerCfg := config.LoadLedgerConfig()
	if err := ledgerStore.EnsureSeedAccount(ctx, ledgerCfg.SeedAccountID, ledgerCfg.SeedInitialBalance); err != nil {
		cancel()
		log.Fatalf("Failed to seed account: %v", err)
	}
	cancel()

	balanceService := services.NewBalanceService(ledgerStore, redisClient, ledgerCfg.BalanceCacheTTL)
	usersHandler := handlers.NewUsersHandler(balanceService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/charge", usersHandler.ChargeUser)
		r.Get("/users/{userId}/balance", usersHandler.GetBalance)
		r.Get("/users/{userId}/history", usersHandler.GetHistory)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
