package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/alerts"
	"github.com/walterplanejamento-code/genmon-core/internal/config"
	"github.com/walterplanejamento-code/genmon-core/internal/database"
	"github.com/walterplanejamento-code/genmon-core/internal/events"
	httpapi "github.com/walterplanejamento-code/genmon-core/internal/http"
	"github.com/walterplanejamento-code/genmon-core/internal/ingest"
	"github.com/walterplanejamento-code/genmon-core/internal/logger"
	"github.com/walterplanejamento-code/genmon-core/internal/mqtt"
	"github.com/walterplanejamento-code/genmon-core/internal/repository"
	"github.com/walterplanejamento-code/genmon-core/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "genmon-core")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	geradoresRepo := repository.NewPostgresGeradoresRepo(db)
	equipamentosRepo := repository.NewPostgresEquipamentosRepo(db)
	leiturasRepo := repository.NewPostgresLeiturasRepo(db)
	parametrosRepo := repository.NewPostgresParametrosAlertaRepo(db)
	alertasRepo := repository.NewPostgresAlertasRepo(db)
	vpsConexoesRepo := repository.NewPostgresVPSConexoesRepo(db)

	evaluator := alerts.NewEvaluator(parametrosRepo, alertasRepo, zlog)
	publisher := events.NewPublisher(redisClient, zlog)
	gateway := ingest.NewGateway(
		geradoresRepo,
		equipamentosRepo,
		leiturasRepo,
		evaluator,
		publisher,
		cfg.Ingest.DefaultVPSIP,
		zlog,
	)

	validation := service.NewValidationService(leiturasRepo, equipamentosRepo, vpsConexoesRepo, zlog)
	diagnostics := service.NewDiagnosticsService(leiturasRepo, equipamentosRepo, zlog)

	handler := httpapi.NewHandler(gateway, validation, diagnostics, cfg.Ingest.RequestTimeout, zlog)
	router := httpapi.NewRouter(zlog)
	router.RegisterRoutes(handler)

	chain := httpapi.Middleware(cfg.Ingest.AllowedOrigins, cfg.Ingest.APIKey, cfg.Ingest.AnonKey, zlog, router)
	srv := service.NewServer(cfg.HTTP.Addr, chain, zlog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.NewClient(&cfg.MQTT)
		if err != nil {
			zlog.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer mqttClient.Disconnect()

		consumer := mqtt.NewConsumer(&cfg.MQTT, mqttClient, gateway, zlog)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				zlog.Error("MQTT consumer exited", zap.Error(err))
			}
		}()
		defer consumer.Stop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zlog.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		zlog.Error("HTTP server exited", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}
