package main

import (
	"context"
	"flag"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/database/seeder"
	"jobboard/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo profiles and jobs after migrating")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if cfg.Backend.Driver != config.DriverPostgres {
		log.WithField("driver", cfg.Backend.Driver).Fatal("migrations only apply to the postgres driver")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r := migration.Runner{URL: cfg.Database.PostgresURL("pgx5"), Logger: log}
	if err := r.Run(ctx); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.Info("migrations applied")

	if !*seed {
		return
	}

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect")
	}
	defer func() {
		_ = db.Close()
	}()

	s := seeder.Runner{Seeders: seeder.Defaults(), Logger: log}
	if err := s.Run(ctx, db); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.Info("seed complete")
}
