// Package app wires the service together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-ai-analyst/api"
	"stock-ai-analyst/cache"
	"stock-ai-analyst/config"
	"stock-ai-analyst/database"
	"stock-ai-analyst/llm"
	"stock-ai-analyst/resolver"
)

// App represents the main application
type App struct {
	config  *config.Config
	db      *database.DB
	gormDB  *database.Database
	redis   *cache.RedisClient
	repo    *database.StockRepository
	answers *cache.AnswerCache
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application
func (a *App) Start() error {
	// 1. Database connections: raw pool for query execution and schema
	// introspection, GORM for schema bootstrap and typed reads
	fmt.Println("🗄️  Connecting to database...")

	db, err := database.NewConnection(database.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	gormDB, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.gormDB = gormDB

	a.repo = database.NewStockRepository(gormDB)
	if err := a.repo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis connection (optional; caching disabled when unavailable)
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Answer caching disabled.")
	} else {
		a.redis = redisClient
		a.answers = cache.NewAnswerCache(redisClient, time.Duration(a.config.Query.CacheTTLMinutes)*time.Minute)
	}

	// 3. LLM client
	var generator resolver.Generator
	if a.config.LLM.Enabled {
		generator = llm.NewClient(a.config.LLM.Endpoint, a.config.LLM.APIKey, a.config.LLM.Model)
		log.Printf("✅ Generative fallback ENABLED (Model: %s)", a.config.LLM.Model)
	} else {
		generator = disabledGenerator{}
		log.Println("ℹ️  Generative fallback DISABLED")
	}

	// 4. Resolution pipeline
	res := resolver.New(a.db, generator, a.db,
		resolver.WithDefaultLimit(a.config.Query.DefaultLimit))

	// 5. API server
	server := api.NewServer(res, res.Catalog(), a.db, a.repo, a.answers, a.config.LLM.Enabled, a.config.Query.MaxLimit)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(a.config.APIPort)
	}()

	// 6. Wait for interrupt and perform graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		a.shutdown()
		return fmt.Errorf("API server failed: %w", err)
	case <-interrupt:
		fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")
		return a.shutdown()
	}
}

// shutdown closes held connections with a timeout.
func (a *App) shutdown() error {
	done := make(chan struct{})
	go func() {
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}
		if a.gormDB != nil {
			if err := a.gormDB.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-time.After(10 * time.Second):
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}

// disabledGenerator stands in for the LLM client when the generative
// fallback is switched off; every call reports unavailability, which the
// resolver surfaces as a terminal error for unclassifiable questions.
type disabledGenerator struct{}

func (disabledGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return "", fmt.Errorf("generative fallback is disabled")
}
