package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/buckutt/buckutt-api/internal/config"
	"github.com/buckutt/buckutt-api/internal/db"
	"github.com/buckutt/buckutt-api/internal/logger"
	"github.com/buckutt/buckutt-api/internal/repository/dao"
	"github.com/buckutt/buckutt-api/internal/seed"
)

func main() {
	configPath := flag.String("config", "./cmd/app/config.yml", "application config file")
	fixturesPath := flag.String("fixtures", "./cmd/seed/fixtures.yml", "YAML fixtures to load")
	reset := flag.Bool("reset", false, "drop and recreate every table first")
	flag.Parse()

	if err := run(*configPath, *fixturesPath, *reset); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, fixturesPath string, reset bool) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	fixtures, err := seed.Load(fixturesPath)
	if err != nil {
		return fmt.Errorf("failed to read fixtures -> %w", err)
	}

	var postgresDB *gorm.DB
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if reset {
		zap.L().Warn("dropping every table")
		if err = dao.ResetTables(postgresDB); err != nil {
			return fmt.Errorf("dao.ResetTables -> %w", err)
		}
	}

	seeder := seed.NewSeeder(dao.NewCatalogDAO(postgresDB), dao.NewUserDAO(postgresDB))
	if err = seeder.Apply(context.Background(), fixtures); err != nil {
		return err
	}

	return nil
}
