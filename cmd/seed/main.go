package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"meditation-premium-service/internal/config"
	"meditation-premium-service/internal/domain"
	pg "meditation-premium-service/internal/infra/db/postgres"
	"meditation-premium-service/internal/infra/logging"
	"meditation-premium-service/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	medRepo := pg.NewMeditationRepo(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	medUC := usecase.NewMeditationUseCase(medRepo, userRepo, logger)

	// If the catalog already has content, do nothing.
	if err := medUC.Seed(ctx); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			n, _ := medRepo.Count(ctx, nil)
			fmt.Printf("%d meditations already present. No changes.\n", n)
			return
		}
		log.Fatalf("seed: %v", err)
	}

	for _, m := range usecase.SampleMeditations() {
		tier := "free"
		if m.IsPremium {
			tier = "premium"
		}
		fmt.Printf("  - %s (%s, %ds, %s)\n", m.Title, m.Category, m.DurationSeconds, tier)
	}
	fmt.Println("Meditation catalog seeded.")
}
