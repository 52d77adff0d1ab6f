// Package geocoder resolves free-text place names to coordinates. Nominatim is
// the default provider; a Meilisearch gazetteer index can be used instead.
package geocoder

import (
	"context"
	"fmt"

	"github.com/route-planner/app/models"
	"go.uber.org/zap"
)

const (
	ProviderNominatim   = "nominatim"
	ProviderMeilisearch = "meilisearch"
)

// Geocoder resolves a place name to its best match. Implementations return
// PlaceNotFound when nothing matches and GeocodingServiceUnavailable when the
// provider cannot be reached or answers with an error.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*models.GeocodeResult, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider    string
	Nominatim   NominatimConfig
	Meilisearch MeiliConfig
}

// New builds the configured provider.
func New(cfg Config, logger *zap.Logger) (Geocoder, error) {
	switch cfg.Provider {
	case "", ProviderNominatim:
		return NewNominatimGeocoder(cfg.Nominatim, logger), nil
	case ProviderMeilisearch:
		return NewMeiliGeocoder(cfg.Meilisearch, logger), nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.Provider)
	}
}
