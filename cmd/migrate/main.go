package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/db"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo prescriptions after migrating")
	flag.Parse()

	_ = godotenv.Load()
	log := logging.New("prescription-migrate")

	log.Info().Bool("seed", *seed).Msg("migration job starting")

	cfg, err := db.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("schema is up to date")

	if !*seed {
		return
	}

	inserted, err := db.Seed(ctx, database, db.DemoPrescriptions)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().
		Int("inserted", inserted).
		Int("skipped", len(db.DemoPrescriptions)-inserted).
		Msg("demo prescriptions seeded")
}
