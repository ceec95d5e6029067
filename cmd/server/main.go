package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	httpadapter "github.com/unimarket/listing-service/internal/adapter/http"
	"github.com/unimarket/listing-service/internal/adapter/messaging/nats"
	"github.com/unimarket/listing-service/internal/adapter/repository/cache"
	"github.com/unimarket/listing-service/internal/adapter/repository/mongodb"
	"github.com/unimarket/listing-service/internal/adapter/storage/s3"
	"github.com/unimarket/listing-service/internal/config"
	listingusecase "github.com/unimarket/listing-service/internal/listing/usecase"
	"github.com/unimarket/listing-service/internal/mailer"
	"github.com/unimarket/listing-service/internal/platform/logger"
	"github.com/unimarket/listing-service/internal/platform/tracer"
	userusecase "github.com/unimarket/listing-service/internal/user/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx := context.Background()

	tp, err := tracer.InitTracer(ctx, cfg.OTELEndpoint)
	if err != nil {
		appLogger.Warn("Tracer initialization failed, continuing without tracing", "error", err.Error())
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				appLogger.Warn("Tracer shutdown failed", "error", err.Error())
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Error("Failed to connect to MongoDB", "uri", cfg.MongoURI, "error", err.Error())
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddress)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "address", cfg.RedisAddress, "error", err.Error())
		os.Exit(1)
	}
	listingCache := cache.NewListingCache(redisClient)
	tokenCache := cache.NewTokenCache(redisClient)

	storage, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize storage", "endpoint", cfg.MinIOEndpoint, "error", err.Error())
		os.Exit(1)
	}

	publisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "url", cfg.NATSURL, "error", err.Error())
		os.Exit(1)
	}
	defer publisher.Close()

	var notifier listingusecase.Notifier
	if cfg.SMTPEmail != "" {
		notifier = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	catalogUc := listingusecase.NewCatalogUsecase(listingRepo, listingCache, appLogger)
	listingUc := listingusecase.NewListingUsecase(listingRepo, userRepo, storage, publisher, notifier, listingCache, appLogger)
	authUc := userusecase.NewAuthUsecase(userRepo, tokenCache, storage, cfg.JWTSecret, appLogger)
	profileUc := userusecase.NewProfileUsecase(userRepo, storage, appLogger)

	handler := httpadapter.NewHandler(catalogUc, listingUc, authUc, profileUc, appLogger)
	router := httpadapter.NewRouter(handler, cfg.JWTSecret, tokenCache, appLogger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", "error", err.Error())
	}
}
