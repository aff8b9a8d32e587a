package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stepfree-maps/service-routing/internal/application"
	"github.com/stepfree-maps/service-routing/internal/client/dgis"
	"github.com/stepfree-maps/service-routing/internal/client/overpass"
	"github.com/stepfree-maps/service-routing/internal/config"
	"github.com/stepfree-maps/service-routing/internal/domain/poi"
	"github.com/stepfree-maps/service-routing/internal/events"
	"github.com/stepfree-maps/service-routing/internal/handler"
	"github.com/stepfree-maps/service-routing/internal/platform/health"
	"github.com/stepfree-maps/service-routing/internal/platform/logger"
	"github.com/stepfree-maps/service-routing/internal/platform/middleware"
	"github.com/stepfree-maps/service-routing/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-routing")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-routing",
		zap.String("port", cfg.Port),
	)

	// Connect to the POI store when configured
	var db *gorm.DB
	var poiRepo poi.Repository
	if cfg.DB.Host != "" {
		db, err = gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&repository.POIModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		poiRepo = repository.NewGormPOIRepository(db)
		log.Info("poi store ready")
	} else {
		log.Info("no database configured, curated pois disabled")
	}

	// Initialize the event publisher (nil when no brokers configured)
	publisher := events.NewPublisher(cfg.KafkaBrokers, log)
	defer func() { _ = publisher.Close() }()

	// Mirror curated poi events into the local store when both Kafka and
	// the database are configured
	if poiRepo != nil && len(cfg.KafkaBrokers) > 0 {
		poiConsumer := events.NewPOIEventConsumer(cfg.KafkaBrokers, "service-routing", poiRepo, log)
		consumerCtx, consumerCancel := context.WithCancel(context.Background())
		defer consumerCancel()
		defer func() { _ = poiConsumer.Close() }()
		go func() {
			log.Info("poi event consumer starting", zap.String("topic", events.TopicPOIEvents))
			if err := poiConsumer.Start(consumerCtx); err != nil {
				log.Error("poi event consumer stopped", zap.Error(err))
			}
		}()
	}

	// Initialize provider clients
	dgisClient := dgis.NewClient(dgis.Config{
		APIKey:     cfg.DGIS.APIKey,
		RoutingURL: cfg.DGIS.RoutingURL,
		CatalogURL: cfg.DGIS.CatalogURL,
		Locale:     cfg.DGIS.Locale,
		Timeout:    cfg.DGIS.Timeout,
	}, log)
	overpassClient := overpass.NewClient(cfg.OverpassURL, log)

	// Warm the region cache; failures fall back to the default region.
	regionCache := dgis.NewMemoryRegionCache()
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 10*time.Second)
	regionID := dgisClient.RegionID(warmCtx, cfg.Region, regionCache)
	warmCancel()
	log.Info("region resolved",
		zap.String("region", cfg.Region),
		zap.String("region_id", regionID),
	)

	// Initialize application services
	plannerService := application.NewPlannerService(
		dgisClient,
		dgisClient,
		overpassClient,
		poiRepo,
		publisher,
		log,
		cfg.Via,
		cfg.Slope,
	)

	// Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(plannerService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-routing")
	healthHandler.RegisterRoutes(router)

	// Register routes
	routeHandler.RegisterRoutes(&router.RouterGroup)
	if poiRepo != nil {
		poiService := application.NewPOIService(poiRepo, log)
		poiHandler := handler.NewPOIHandler(poiService)
		poiHandler.RegisterRoutes(&router.RouterGroup)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-routing...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-routing stopped")
}
