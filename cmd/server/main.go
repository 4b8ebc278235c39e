package main

import (
	"flag"
	"os"
	"syscall"

	"github.com/carman72tmn/foodtech/internal/app"
	"github.com/carman72tmn/foodtech/internal/config"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "run mode: all / api / worker / scheduler")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = log.Sync() }()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		logger.Errorw("db_init_failed", "error", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Errorw("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		Mode:    *mode,
	}); err != nil {
		logger.Errorw("app_exit", "error", err)
		os.Exit(1)
	}
}
