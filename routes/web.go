package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/route-planner/app/controllers"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine, routeController *controllers.RouteController) {
	web := router.Group("/")
	{
		web.GET("/", routeController.Index)

		// API documentation
		web.GET("/docs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api":     "Route Planner API",
				"version": controllers.Version,
				"endpoints": map[string]string{
					"geocode":    "GET /geocode?q=<text>",
					"route":      "GET /route?start=<lat,lon|text>&end=<lat,lon|text>",
					"save_route": "POST /save-route",
					"routes":     "GET /routes",
					"health":     "GET /health",
					"metrics":    "GET /metrics",
				},
			})
		})
	}
}
