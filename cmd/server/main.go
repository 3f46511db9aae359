package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	grpcAdapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/grpc"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/router"
	natsAdapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/session"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/local"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/s3"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"

	// Platform
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const mongoConnectTimeout = 10 * time.Second

func main() {
	// Load .env file (optional, for local development)
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	// 2. Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))

	// 3. Tracer
	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)

	// 4. Metrics
	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)

	// 5. MongoDB
	mongoClient, err := mongoRepo.Connect(context.Background(), cfg.MongoURI, mongoConnectTimeout)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected and pinged MongoDB.", zap.String("database", cfg.MongoDatabase))
	db := mongoClient.Database(cfg.MongoDatabase)

	// 6. Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis.", zap.String("addr", cfg.RedisAddr))

	// 7. Image storage
	var (
		imageStorage domain.ImageStorage
		uploads      http.Handler
	)
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3Storage, err := s3.NewS3Storage(context.Background(), cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		imageStorage = s3Storage
	default:
		localStorage, err := local.NewStorage(cfg.UploadsDir, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		imageStorage = localStorage
		uploads = localStorage.Handler()
	}

	// 8. NATS publisher and image janitor
	var (
		publisher     domain.EventPublisher
		janitor       domain.ImageJanitor
		natsPublisher *natsAdapter.Publisher
		natsJanitor   *natsAdapter.ImageJanitor
		inlineJanitor *storage.InlineJanitor
	)
	if cfg.NATSURL != "" {
		natsPublisher, err = natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		natsJanitor = natsAdapter.NewImageJanitor(natsPublisher, imageStorage, appLogger)
		if err := natsJanitor.Start(); err != nil {
			appLogger.Fatal("Failed to start image janitor", zap.Error(err))
		}
		publisher, janitor = natsPublisher, natsJanitor
	} else {
		appLogger.Warn("NATS_URL is empty: events are dropped and old images are deleted in-process.")
		inlineJanitor = storage.NewInlineJanitor(imageStorage, appLogger)
		publisher, janitor = natsAdapter.NopPublisher{Logger: appLogger}, inlineJanitor
	}

	// 9. Repositories
	userRepo := mongoRepo.NewUserRepository(db, appLogger)
	carRepo := mongoRepo.NewCarRepository(db, appLogger)
	propertyRepo := mongoRepo.NewPropertyRepository(db, appLogger)
	listingCache := cache.NewListingCache(redisClient, cfg.ListingCacheTTL)

	// 10. Sessions
	sessionStore := session.NewRedisStore(redisClient, cfg.SessionTTL, appLogger)
	sessionManager := session.NewManager(sessionStore, session.NewTokenCodec(cfg.SessionSecret), cfg.SessionCookieName, cfg.SessionCookieSecure)

	// 11. Usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, publisher, metricsManager, cfg.BcryptCost, appLogger)
	listingUsecase := usecase.NewListingUsecase(carRepo, propertyRepo, userRepo, listingCache, imageStorage, publisher, metricsManager, appLogger)
	dashboardUsecase := usecase.NewDashboardUsecase(carRepo, propertyRepo, appLogger)
	favoriteUsecase := usecase.NewFavoriteUsecase(userRepo, carRepo, propertyRepo, publisher, metricsManager, appLogger)
	profileUsecase := usecase.NewProfileUsecase(userRepo, imageStorage, janitor, appLogger)

	// 12. HTTP handlers and router
	limits := handler.UploadLimits{MaxFiles: cfg.MaxPhotos, MaxFileSizeMB: cfg.MaxUploadSizeMB}
	gate := middleware.NewSessionGate(sessionManager, authUsecase, appLogger)

	r := router.New(appLogger, metricsManager, router.Options{
		Uploads:      uploads,
		ServeMetrics: cfg.PrometheusMetricsPort == "",
	})
	router.SetupAuthRoutes(r, handler.NewAuthHandler(authUsecase, sessionManager, appLogger), gate)
	router.SetupListingRoutes(r, handler.NewListingHandler(listingUsecase, limits, metricsManager, appLogger), gate)
	router.SetupAccountRoutes(r, handler.NewAccountHandler(dashboardUsecase, favoriteUsecase, profileUsecase, limits, metricsManager, appLogger), gate)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	// 13. gRPC health server
	grpcSrv, healthServer := grpcAdapter.NewGRPCServer(appLogger)
	if cfg.GRPCHealthPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCHealthPort)
		if err != nil {
			appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCHealthPort), zap.Error(err))
		}
		go func() {
			appLogger.Info("Starting gRPC health server", zap.String("port", cfg.GRPCHealthPort))
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				appLogger.Error("gRPC server Serve error", zap.Error(err))
			}
		}()
	}

	// 14. Prometheus metrics server
	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	defer stopMetrics()
	go func() {
		if err := metrics.StartMetricsServer(metricsCtx, cfg.PrometheusMetricsPort, appLogger, metricsManager); err != nil {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	// 15. HTTP server
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	grpcAdapter.SetServing(healthServer, true)

	// 16. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		appLogger.Error("HTTP server failed", zap.Error(err))
	}

	grpcAdapter.SetServing(healthServer, false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("HTTP server stopped.")

	grpcSrv.GracefulStop()
	appLogger.Info("gRPC server stopped.")
	stopMetrics()

	if natsJanitor != nil {
		natsJanitor.Stop()
	}
	if natsPublisher != nil {
		natsPublisher.Close()
	}
	if inlineJanitor != nil {
		inlineJanitor.Wait()
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		appLogger.Error("Error closing Redis client", zap.Error(err))
	}

	tracerCtx, cancelTracer := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTracer()
	if err := tp.Shutdown(tracerCtx); err != nil {
		appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	appLogger.Info("Application shut down.")
}
