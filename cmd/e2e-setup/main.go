package main

import (
	"context"
	"flag"
	"log"

	"meditation-premium-service/internal/config"
	pg "meditation-premium-service/internal/infra/db/postgres"
	"meditation-premium-service/internal/infra/logging"
	red "meditation-premium-service/internal/infra/redis"
	"meditation-premium-service/internal/usecase"
)

// This script sets up a clean, predictable database state for manual
// end-to-end testing.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	// --- Connect to Postgres ---
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	// --- Connect to Redis ---
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Clean the Redis cache to remove any stale data.
	log.Println("[1/4] Wiping Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	// 2. Clean the database completely.
	log.Println("[2/4] Wiping all existing database data...")
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	_, err = pool.Exec(ctx, `
		TRUNCATE users, meditations, activation_codes RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	// 3. Seed the meditation catalog.
	log.Println("[3/4] Seeding meditation catalog...")
	medRepo := pg.NewMeditationRepo(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	medUC := usecase.NewMeditationUseCase(medRepo, userRepo, logger)
	if err := medUC.Seed(ctx); err != nil {
		log.Fatalf("failed to seed meditations: %v", err)
	}

	// 4. Issue a known activation code for manual redemption flows.
	log.Println("[4/4] Issuing a test activation code...")
	codeRepo := pg.NewActivationCodeRepo(pool)
	txManager := pg.NewTxManager(pool)
	subUC := usecase.NewSubscriptionUseCase(codeRepo, userRepo, txManager, logger)
	issued, err := subUC.Issue(ctx, 30)
	if err != nil {
		log.Fatalf("failed to issue test code: %v", err)
	}
	log.Printf("test activation code (30 days): %s", issued.RawCode)

	log.Println("--- E2E Environment Setup Complete ---")
}
