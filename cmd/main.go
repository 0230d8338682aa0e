package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/cache"
	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/db"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/repositories"
	api "github.com/Dosada05/tournament-engine/routes"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// @title Tournament Engine API
// @version 1.0
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn, logger); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Кэш таблиц групп (Redis), без него таблицы считаются на каждый запрос
	var standingsCache cache.StandingsCache = cache.NoopStandingsCache{}
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, standings cache disabled", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
		} else {
			defer redisClient.Close()
			standingsCache = cache.NewRedisStandingsCache(redisClient, cfg.StandingsCacheTTL)
			logger.Info("standings cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.StandingsCacheTTL))
		}
	}

	// Архив жеребьевок в Cloudflare R2
	var drawArchive services.DrawArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		drawArchive = storage.NewDrawArchive(uploader)
		logger.Info("draw archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	// Инициализация WebSocket Hub
	hubDone := make(chan struct{})
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(hubDone)
	defer close(hubDone)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	transactor := repositories.NewPostgresTransactor(dbConn, logger)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	// Инициализация сервисов
	locker := services.NewTournamentLocker()
	teamService := services.NewTeamService(teamRepo, logger)
	tournamentService := services.NewTournamentService(
		transactor, locker, tournamentRepo, teamRepo, groupRepo, matchRepo, drawArchive, wsHub, logger,
	)
	matchService := services.NewMatchService(
		transactor, locker, tournamentRepo, teamRepo, groupRepo, matchRepo, standingsCache, wsHub, logger,
	)
	bracketService := services.NewBracketService(
		transactor, locker, tournamentRepo, teamRepo, groupRepo, matchRepo, drawArchive, wsHub, logger,
	)
	standingsService := services.NewStandingsService(tournamentRepo, groupRepo, matchRepo, standingsCache, logger)

	// Инициализация обработчиков HTTP
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, bracketService, matchService)
	matchHandler := handlers.NewMatchHandler(matchService, standingsService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, teamHandler, tournamentHandler, matchHandler, webSocketHandler)

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
