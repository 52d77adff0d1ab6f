// Package routing talks to an OSRM-compatible driving-route service.
package routing

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"github.com/route-planner/internal/upstream"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://router.project-osrm.org"
	DefaultProfile = "driving"
)

// Router computes a route between two "lon,lat" points.
type Router interface {
	Route(ctx context.Context, startLonLat, endLonLat string) (*models.RouteResult, error)
}

type Config struct {
	BaseURL   string
	Profile   string
	Timeout   time.Duration
	UserAgent string
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
}

// OSRMClient requests the single best route with a full GeoJSON overview.
type OSRMClient struct {
	client  *upstream.Client
	profile string
	logger  *zap.Logger
}

func NewOSRMClient(cfg Config, logger *zap.Logger) *OSRMClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}
	return &OSRMClient{
		client: upstream.NewClient(upstream.Config{
			Name:      "osrm",
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}, logger),
		profile: cfg.Profile,
		logger:  logger,
	}
}

func (c *OSRMClient) Route(ctx context.Context, startLonLat, endLonLat string) (*models.RouteResult, error) {
	path := "/route/v1/" + url.PathEscape(c.profile) + "/" + startLonLat + ";" + endLonLat

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")
	params.Set("alternatives", "false")
	params.Set("steps", "false")

	var resp osrmResponse
	if err := c.client.GetJSON(ctx, path, params, &resp); err != nil {
		return nil, apperror.Wrap(apperror.RoutingServiceUnavailable, err, "routing service unavailable")
	}
	if len(resp.Routes) == 0 {
		return nil, apperror.New(apperror.NoRouteFound, "no route found")
	}

	best := resp.Routes[0]
	c.logger.Debug("Route computed",
		zap.String("start", startLonLat),
		zap.String("end", endLonLat),
		zap.Float64("distance_m", best.Distance),
		zap.Float64("duration_s", best.Duration))

	return &models.RouteResult{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}, nil
}
