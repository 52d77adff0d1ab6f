package geocoder

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/agnivade/levenshtein"
	ms "github.com/meilisearch/meilisearch-go"
	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"github.com/route-planner/internal/metrics"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
)

// MeiliConfig points at a gazetteer index whose documents carry
// name, display_name, lat and lon.
type MeiliConfig struct {
	Host       string
	APIKey     string
	IndexName  string
	Candidates int
	Timeout    time.Duration
}

// MeiliGeocoder resolves places against a local Meilisearch gazetteer. The
// index returns a handful of typo-tolerant candidates; the one whose name is
// closest to the query wins.
type MeiliGeocoder struct {
	client     ms.ServiceManager
	indexName  string
	candidates int
	timeout    time.Duration
	logger     *zap.Logger
}

func NewMeiliGeocoder(cfg MeiliConfig, logger *zap.Logger) *MeiliGeocoder {
	candidates := cfg.Candidates
	if candidates <= 0 {
		candidates = 5
	}
	indexName := cfg.IndexName
	if indexName == "" {
		indexName = "places"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// One attempt per lookup, bounded by timeout.
	client := ms.New(cfg.Host,
		ms.WithAPIKey(cfg.APIKey),
		ms.WithCustomClient(&http.Client{Timeout: timeout}),
		ms.DisableRetries(),
	)
	return &MeiliGeocoder{
		client:     client,
		indexName:  indexName,
		candidates: candidates,
		timeout:    timeout,
		logger:     logger,
	}
}

type gazetteerHit struct {
	Name        string
	DisplayName string
	Lat         float64
	Lon         float64
}

func (g *MeiliGeocoder) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, apperror.New(apperror.MissingParameter, "q required")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Index(g.indexName).SearchWithContext(ctx, q, &ms.SearchRequest{
		Limit: int64(g.candidates),
	})
	if err != nil {
		metrics.ObserveUpstream("meilisearch", "transport_error", time.Since(start))
		g.logger.Warn("Gazetteer search failed", zap.String("query", q), zap.Error(err))
		return nil, apperror.Wrap(apperror.GeocodingServiceUnavailable, err, "geocoding service unavailable")
	}
	metrics.ObserveUpstream("meilisearch", "ok", time.Since(start))

	hits := parseGazetteerHits(resp.Hits)
	best, ok := bestHit(q, hits)
	if !ok {
		return nil, apperror.New(apperror.PlaceNotFound, "place not found: "+query)
	}

	displayName := best.DisplayName
	if displayName == "" {
		displayName = best.Name
	}
	return &models.GeocodeResult{
		Latitude:    best.Lat,
		Longitude:   best.Lon,
		DisplayName: displayName,
	}, nil
}

func parseGazetteerHits(raw []interface{}) []gazetteerHit {
	hits := make([]gazetteerHit, 0, len(raw))
	for _, h := range raw {
		hitMap, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		lat, latOK := numberField(hitMap["lat"])
		lon, lonOK := numberField(hitMap["lon"])
		if !latOK || !lonOK {
			continue
		}
		hit := gazetteerHit{Lat: lat, Lon: lon}
		if name, ok := hitMap["name"].(string); ok {
			hit.Name = name
		}
		if displayName, ok := hitMap["display_name"].(string); ok {
			hit.DisplayName = displayName
		}
		hits = append(hits, hit)
	}
	return hits
}

// numberField accepts both JSON numbers and numeric strings, since gazetteer
// imports from Nominatim dumps keep coordinates as strings.
func numberField(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// bestHit picks the hit whose name scores highest against query. Ties keep the
// search engine's order.
func bestHit(query string, hits []gazetteerHit) (gazetteerHit, bool) {
	if len(hits) == 0 {
		return gazetteerHit{}, false
	}
	q := FoldASCII(query)
	best, bestScore := hits[0], -1.0
	for _, hit := range hits {
		name := hit.Name
		if name == "" {
			name = hit.DisplayName
		}
		if score := similarity(q, FoldASCII(name)); score > bestScore {
			best, bestScore = hit, score
		}
	}
	return best, true
}

// similarity blends Jaro-Winkler with a length-normalised edit distance and
// keeps the larger of the two.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)
	maxLen := math.Max(float64(len(a)), float64(len(b)))
	lev := 1.0 - float64(levenshtein.ComputeDistance(a, b))/maxLen
	return math.Max(jw, lev)
}
