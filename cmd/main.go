package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	openai "github.com/sashabaranov/go-openai"

	"github.com/doanhtu07/web-slinger-dispatch/internal/announce"
	"github.com/doanhtu07/web-slinger-dispatch/internal/config"
	"github.com/doanhtu07/web-slinger-dispatch/internal/extract"
	"github.com/doanhtu07/web-slinger-dispatch/internal/geocode"
	v1 "github.com/doanhtu07/web-slinger-dispatch/internal/handler/http/v1"
	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/doanhtu07/web-slinger-dispatch/internal/notify"
	"github.com/doanhtu07/web-slinger-dispatch/internal/repository"
	"github.com/doanhtu07/web-slinger-dispatch/internal/service"
	"github.com/doanhtu07/web-slinger-dispatch/internal/speech"
	"github.com/doanhtu07/web-slinger-dispatch/internal/voice"
	"github.com/doanhtu07/web-slinger-dispatch/pkg/logger"
	"github.com/doanhtu07/web-slinger-dispatch/pkg/postgres"
	redisclient "github.com/doanhtu07/web-slinger-dispatch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/doanhtu07/web-slinger-dispatch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Web Slinger Dispatch API
// @version 1.0
// @description Citizen incident reporting with voice intake and proximity alerting.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// feedAnnouncer seeds the announcer with the current active incidents and
// then pushes a fresh snapshot whenever the live feed reports a change.
// The seed gives points registered at startup a baseline to mark against,
// so existing incidents are not replayed as announcements.
func feedAnnouncer(ctx context.Context, repo *repository.IncidentRepository, announcer *announce.Announcer, log *logrus.Logger) {
	feed := make(chan []models.Incident)
	go announcer.Run(ctx, feed)

	loadSnapshot := func() ([]models.Incident, error) {
		incidents, err := repo.ListRecentActive(ctx, 200)
		if err != nil {
			return nil, err
		}
		snapshot := make([]models.Incident, len(incidents))
		for i, incident := range incidents {
			snapshot[i] = *incident
		}
		return snapshot, nil
	}

	events := repo.SubscribeIncidentEvents(ctx)
	go func() {
		defer close(feed)

		if snapshot, err := loadSnapshot(); err != nil {
			log.WithError(err).Error("Failed to load initial incident snapshot for announcer")
		} else {
			select {
			case feed <- snapshot:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				snapshot, err := loadSnapshot()
				if err != nil {
					log.WithError(err).Error("Failed to refresh incident snapshot for announcer")
					continue
				}
				select {
				case feed <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Extraction and transcription run in degraded mode without an API
	// key: keyword matching only, no audio intake.
	var chatClient extract.ChatCompleter
	var audioClient voice.AudioClient
	if cfg.OpenAIAPIKey != "" {
		openaiClient := openai.NewClient(cfg.OpenAIAPIKey)
		chatClient = openaiClient
		audioClient = openaiClient
	} else {
		log.Warn("OPENAI_API_KEY not set, transcript extraction will use keyword matching only")
	}
	extractor := extract.NewExtractor(chatClient, cfg.OpenAIModel, log)
	transcriber := voice.NewTranscriber(audioClient, log)

	geocoder := geocode.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent, cfg.GeocodeBiasKM, cfg.GeocodeTimeout, log)
	resolver := geocode.NewResolver(geocoder, cfg.GeocodeMinScore, log)

	var speaker speech.Speaker = speech.NewBuiltin(log)
	if cfg.TTSBaseURL != "" {
		speaker = speech.NewClient(cfg.TTSBaseURL, cfg.TTSVoice, cfg.TTSTimeout, speech.NewBuiltin(log), log)
	}

	announcePublisher := notify.NewRedisPublisher(redisClient)
	announcer := announce.NewAnnouncer(speaker, announcePublisher, cfg.ProximityRadiusMiles, log)

	deliveryWorker := notify.NewWorker(redisClient, log, cfg)
	deliveryWorker.Start(ctx)

	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)

	incidentService := service.NewIncidentService(incidentRepo, incidentRepo, cfg.ProximityRadiusMiles, log)
	reportService := service.NewReportService(extractor, resolver, incidentService, log)

	feedAnnouncer(ctx, incidentRepo, announcer, log)

	handler := v1.NewHandler(incidentService, reportService, announcer, transcriber, log, cfg)

	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
