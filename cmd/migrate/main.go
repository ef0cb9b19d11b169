// Command migrate aplica o revierte las migraciones SQL embebidas.
//
//	go run ./cmd/migrate -direction up
//	go run ./cmd/migrate -direction down
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

func main() {
	direction := flag.String("direction", postgres.MigrateUp, "up | down")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	dsn := postgres.MigrationDSN(context.Background(), cfg.DB)
	if err := postgres.Migrate(dsn, *direction); err != nil {
		log.Error().Err(err).Str("direction", *direction).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Str("direction", *direction).Msg("migraciones aplicadas")
}
