package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/buckutt/buckutt-api/internal/api"
	"github.com/buckutt/buckutt-api/internal/config"
	"github.com/buckutt/buckutt-api/internal/db"
	"github.com/buckutt/buckutt-api/internal/logger"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	config.Watch(configPath, func(level string) {
		if err := logger.SetLevel(level); err != nil {
			zap.L().Warn("ignoring log level from config", zap.String("level", level), zap.Error(err))
			return
		}
		zap.L().Info("log level changed", zap.String("level", level))
	})

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	redisClient, err := db.OpenRedis(context.Background(), conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize redis -> %w", err)
	}
	if redisClient == nil {
		zap.L().Warn("redis.addr is empty, login attempts are not rate limited")
	}

	s := api.NewServer(conf, postgresDB, redisClient)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
