package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/route-planner/app/requests"
	"github.com/route-planner/app/responses"
	"github.com/route-planner/app/services"
	"github.com/route-planner/internal/apperror"
	"github.com/route-planner/internal/metrics"
	"go.uber.org/zap"
)

// Version phiên bản service
const Version = "1.0.0"

// RouteController controller xử lý geocode, route và saved routes
type RouteController struct {
	routeService *services.RouteService
	routeStore   services.IRouteStore
	listLimit    int
	logger       *zap.Logger
}

// NewRouteController tạo mới RouteController
func NewRouteController(routeService *services.RouteService, routeStore services.IRouteStore, listLimit int, logger *zap.Logger) *RouteController {
	if listLimit <= 0 {
		listLimit = services.DefaultListLimit
	}
	return &RouteController{
		routeService: routeService,
		routeStore:   routeStore,
		listLimit:    listLimit,
		logger:       logger,
	}
}

// Index GET /
func (rc *RouteController) Index(c *gin.Context) {
	c.JSON(http.StatusOK, responses.OKResponse{OK: true})
}

// Geocode GET /geocode?q=
func (rc *RouteController) Geocode(c *gin.Context) {
	var query requests.GeocodeQuery
	if err := c.ShouldBindQuery(&query); err != nil || strings.TrimSpace(query.Q) == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "q required"})
		return
	}

	result, err := rc.routeService.Geocode(c.Request.Context(), query.Q)
	if err != nil {
		// Mọi lỗi resolve đều là 400 với /geocode
		status := http.StatusBadRequest
		if apperror.KindOf(err) == apperror.UnexpectedError {
			status = http.StatusInternalServerError
		}
		rc.respondError(c, status, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Route GET /route?start=&end=
func (rc *RouteController) Route(c *gin.Context) {
	var query requests.RouteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "start and end required"})
		return
	}

	result, err := rc.routeService.Route(c.Request.Context(), query.Start, query.End)
	if err != nil {
		rc.respondError(c, apperror.KindOf(err).HTTPStatus(), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaveRoute POST /save-route
func (rc *RouteController) SaveRoute(c *gin.Context) {
	var req requests.SaveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "invalid request body"})
		return
	}
	// Store tắt thì SaveRoute trả PersistenceUnavailable với mọi body hợp lệ
	if len(req.Geo) == 0 && rc.routeStore.Driver() != services.DriverNone {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "geo required"})
		return
	}

	id, err := rc.routeStore.SaveRoute(c.Request.Context(), req.Name, req.Geo)
	if err != nil {
		metrics.SavedRoutes.WithLabelValues(rc.routeStore.Driver(), "error").Inc()
		rc.respondError(c, apperror.KindOf(err).HTTPStatus(), err)
		return
	}
	metrics.SavedRoutes.WithLabelValues(rc.routeStore.Driver(), "ok").Inc()

	c.JSON(http.StatusOK, responses.SaveRouteResponse{
		OK:      true,
		ID:      id,
		Message: "route saved",
	})
}

// ListRoutes GET /routes
func (rc *RouteController) ListRoutes(c *gin.Context) {
	routes, err := rc.routeStore.ListRoutes(c.Request.Context(), rc.listLimit)
	if err != nil {
		rc.respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, routes)
}

// HealthCheck kiểm tra sức khỏe service
func (rc *RouteController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	persistence := "disabled"
	if rc.routeStore.Driver() != services.DriverNone {
		persistence = "healthy"
		if err := rc.routeStore.Ping(ctx); err != nil {
			rc.logger.Warn("Persistence ping thất bại", zap.Error(err))
			persistence = "unhealthy"
		}
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(rc.routeService.GetStartTime()).String(),
		Version:   Version,
		Services: map[string]string{
			"route_service":      "healthy",
			"persistence":        persistence,
			"persistence_driver": rc.routeStore.Driver(),
		},
	})
}

// respondError log lỗi và trả về {error: message}
func (rc *RouteController) respondError(c *gin.Context, status int, err error) {
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("kind", apperror.KindOf(err).String()),
		zap.Int("status", status),
		zap.Error(err),
	}
	switch {
	case status >= http.StatusInternalServerError:
		rc.logger.Error("Request failed", fields...)
	default:
		rc.logger.Info("Request rejected", fields...)
	}

	c.JSON(status, responses.ErrorResponse{Error: apperror.Message(err)})
}
