package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/route-planner/app/config"
	"github.com/route-planner/app/controllers"
	"github.com/route-planner/app/services"
	"github.com/route-planner/internal/geocoder"
	"github.com/route-planner/internal/routing"
	"github.com/route-planner/routes"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "đường dẫn file cấu hình yaml")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("Cannot load config: ", err)
	}

	// 2. Khởi tạo logger
	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting Route Planner Service")
	logger.Debug("Effective config\n" + cfg.Redacted())

	// 3. Khởi tạo geocoder và router
	geo, err := geocoder.New(geocoder.Config{
		Provider: cfg.Geocoder.Provider,
		Nominatim: geocoder.NominatimConfig{
			BaseURL:   cfg.Geocoder.URL,
			UserAgent: cfg.Geocoder.UserAgent,
			Timeout:   cfg.Geocoder.Timeout,
		},
		Meilisearch: geocoder.MeiliConfig{
			Host:       cfg.Geocoder.Meilisearch.URL,
			APIKey:     cfg.Geocoder.Meilisearch.APIKey,
			IndexName:  cfg.Geocoder.Meilisearch.Index,
			Candidates: cfg.Geocoder.Meilisearch.Candidates,
			Timeout:    cfg.Geocoder.Timeout,
		},
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize geocoder", zap.Error(err))
	}

	router := routing.NewOSRMClient(routing.Config{
		BaseURL:   cfg.Router.URL,
		Profile:   cfg.Router.Profile,
		Timeout:   cfg.Router.Timeout,
		UserAgent: cfg.Geocoder.UserAgent,
	}, logger)

	// 4. Persistence gateway (tự tắt nếu không kết nối được)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	routeStore := services.NewRouteStore(ctx, cfg.Persistence, logger)
	cancel()
	logger.Info("Persistence ready", zap.String("driver", routeStore.Driver()))

	// 5. Khởi tạo services và controllers
	routeService := services.NewRouteService(geo, router, logger)
	routeController := controllers.NewRouteController(routeService, routeStore, cfg.Persistence.ListLimit, logger)

	// 6. Khởi tạo Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	routes.SetupAllRoutes(engine, routeController, routes.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	// 7. Khởi động server
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.App.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Route Planner Service starting", zap.Int("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := routeStore.Close(shutdownCtx); err != nil {
		logger.Error("Error closing route store", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger khởi tạo structured logger
func initLogger(cfg *config.Config) *zap.Logger {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}
