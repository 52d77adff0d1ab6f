package geocoder

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"github.com/route-planner/internal/upstream"
	"go.uber.org/zap"
)

const (
	// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	// DefaultUserAgent identifies this service, as the Nominatim usage policy requires.
	DefaultUserAgent = "route-planner/1.0"
)

type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder queries a Nominatim /search endpoint for the single best match.
type NominatimGeocoder struct {
	client *upstream.Client
	logger *zap.Logger
}

func NewNominatimGeocoder(cfg NominatimConfig, logger *zap.Logger) *NominatimGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &NominatimGeocoder{
		client: upstream.NewClient(upstream.Config{
			Name:      "nominatim",
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}, logger),
		logger: logger,
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, apperror.New(apperror.MissingParameter, "q required")
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	var places []nominatimPlace
	if err := g.client.GetJSON(ctx, "/search", params, &places); err != nil {
		return nil, apperror.Wrap(apperror.GeocodingServiceUnavailable, err, "geocoding service unavailable")
	}
	if len(places) == 0 {
		return nil, apperror.New(apperror.PlaceNotFound, "place not found: "+query)
	}

	best := places[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return nil, apperror.Wrap(apperror.GeocodingServiceUnavailable, err, "geocoding service returned invalid coordinates")
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return nil, apperror.Wrap(apperror.GeocodingServiceUnavailable, err, "geocoding service returned invalid coordinates")
	}

	g.logger.Debug("Geocoded place",
		zap.String("query", q),
		zap.String("display_name", best.DisplayName))

	return &models.GeocodeResult{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: best.DisplayName,
	}, nil
}
