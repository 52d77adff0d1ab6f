package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/route-planner/app/controllers"
	"github.com/route-planner/app/responses"
	"github.com/route-planner/internal/metrics"
	"go.uber.org/zap"
)

// Options cấu hình middleware cho router
type Options struct {
	AllowedOrigins []string
	Logger         *zap.Logger
}

// SetupAPIRoutes thiết lập API routes
func SetupAPIRoutes(router *gin.Engine, routeController *controllers.RouteController) {
	router.GET("/geocode", routeController.Geocode)
	router.GET("/route", routeController.Route)
	router.POST("/save-route", routeController.SaveRoute)
	router.GET("/routes", routeController.ListRoutes)
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, routeController *controllers.RouteController) {
	router.GET("/health", routeController.HealthCheck)
	router.GET("/ready", routeController.HealthCheck)
	router.GET("/live", routeController.HealthCheck)
}

// SetupMetricsRoutes thiết lập metrics routes (cho Prometheus)
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, routeController *controllers.RouteController, opts Options) {
	setupMiddleware(router, opts)

	SetupWebRoutes(router, routeController)
	SetupHealthRoutes(router, routeController)
	SetupAPIRoutes(router, routeController)
	SetupMetricsRoutes(router)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: "route not found: " + c.Request.Method + " " + c.Request.URL.Path})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router.Use(RequestID())
	router.Use(Recovery(logger))
	router.Use(AccessLog(logger))
	router.Use(CORS(opts.AllowedOrigins))
	router.Use(metrics.Middleware())
}
