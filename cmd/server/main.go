package main

import (
	"log"
	"net/http"

	"userhub/docs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userhub/internal/cache"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/handler"
	"userhub/internal/logger"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/router"
	"userhub/internal/service"
)

// @title User Directory API
// @version 1.0
// @description CRUD and CSV export over the user directory.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Missing .env is fine; the environment itself may carry the config.
	_ = godotenv.Load()

	cfg := config.Load()

	appLog, cleanup := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer cleanup()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		appLog.Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		appLog.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, cacheClient)
	exportService := service.NewUserExportService(userRepo)
	userHandler := handler.NewUserHandler(userService, exportService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, appLog, userHandler)

	appLog.Info("starting server",
		zap.String("port", cfg.ServerPort),
		zap.String("swagger", "http://localhost:"+cfg.ServerPort+"/swagger/index.html"),
	)

	if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
