package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	places  map[string]models.GeocodeResult
	errs    map[string]error
	delays  map[string]time.Duration
	queries []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	// delayed queries wait, returning early if ctx is cancelled
	if delay, ok := f.delays[query]; ok {
		select {
		case <-ctx.Done():
			return nil, apperror.Wrap(apperror.GeocodingServiceUnavailable, ctx.Err(), "geocoding service unavailable")
		case <-time.After(delay):
		}
	}
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if place, ok := f.places[query]; ok {
		return &place, nil
	}
	return nil, apperror.New(apperror.PlaceNotFound, "place not found: "+query)
}

func (f *fakeGeocoder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeRouter struct {
	calls [][2]string
	err   error
}

func (f *fakeRouter) Route(ctx context.Context, startLonLat, endLonLat string) (*models.RouteResult, error) {
	f.calls = append(f.calls, [2]string{startLonLat, endLonLat})
	if f.err != nil {
		return nil, f.err
	}
	return &models.RouteResult{
		DistanceMeters:  1234.5,
		DurationSeconds: 120,
		Geometry:        json.RawMessage(`{"type":"LineString","coordinates":[[-73,40],[-74,41]]}`),
	}, nil
}

func newTestRouteService(g *fakeGeocoder, r *fakeRouter) *RouteService {
	if g == nil {
		g = &fakeGeocoder{}
	}
	return NewRouteService(g, r, zap.NewNop())
}

func TestRouteService_Route_Coordinates(t *testing.T) {
	g := &fakeGeocoder{}
	r := &fakeRouter{}
	rs := newTestRouteService(g, r)

	res, err := rs.Route(context.Background(), "40.0,-73.0", "41.0,-74.0")
	require.NoError(t, err)

	assert.Equal(t, "-73,40", res.StartCoords)
	assert.Equal(t, "-74,41", res.EndCoords)
	assert.Equal(t, 1234.5, res.DistanceMeters)
	assert.Equal(t, 120.0, res.DurationSeconds)
	require.Len(t, r.calls, 1)
	assert.Equal(t, [2]string{"-73,40", "-74,41"}, r.calls[0])
	assert.Zero(t, g.calls(), "coordinates must not be geocoded")
}

func TestRouteService_Route_PlaceNames(t *testing.T) {
	g := &fakeGeocoder{places: map[string]models.GeocodeResult{
		"Paris":  {Latitude: 48.8566, Longitude: 2.3522, DisplayName: "Paris"},
		"Berlin": {Latitude: 52.52, Longitude: 13.405, DisplayName: "Berlin"},
	}}
	r := &fakeRouter{}
	rs := newTestRouteService(g, r)

	res, err := rs.Route(context.Background(), " Paris ", "Berlin")
	require.NoError(t, err)

	assert.Equal(t, "2.3522,48.8566", res.StartCoords)
	assert.Equal(t, "13.405,52.52", res.EndCoords)
	assert.Equal(t, 2, g.calls())
}

func TestRouteService_Route_Mixed(t *testing.T) {
	g := &fakeGeocoder{places: map[string]models.GeocodeResult{
		"Berlin": {Latitude: 52.52, Longitude: 13.405},
	}}
	r := &fakeRouter{}
	rs := newTestRouteService(g, r)

	res, err := rs.Route(context.Background(), "48.1,11.5", "Berlin")
	require.NoError(t, err)

	assert.Equal(t, "11.5,48.1", res.StartCoords)
	assert.Equal(t, "13.405,52.52", res.EndCoords)
	assert.Equal(t, 1, g.calls())
}

func TestRouteService_Route_MissingParameters(t *testing.T) {
	cases := []struct{ start, end string }{
		{"", ""},
		{"40,-73", ""},
		{"", "41,-74"},
		{"   ", "41,-74"},
	}
	for _, tc := range cases {
		g := &fakeGeocoder{}
		r := &fakeRouter{}
		rs := newTestRouteService(g, r)

		_, err := rs.Route(context.Background(), tc.start, tc.end)
		require.Error(t, err)
		assert.Equal(t, apperror.MissingParameter, apperror.KindOf(err))
		assert.Equal(t, "start and end required", apperror.Message(err))
		assert.Zero(t, g.calls())
		assert.Empty(t, r.calls)
	}
}

func TestRouteService_Route_StartErrorWins(t *testing.T) {
	g := &fakeGeocoder{}
	r := &fakeRouter{}
	rs := newTestRouteService(g, r)

	// both ends unknown: the start's error is reported every time
	for i := 0; i < 20; i++ {
		_, err := rs.Route(context.Background(), "StartNowhere", "EndNowhere")
		require.Error(t, err)
		assert.Equal(t, apperror.PlaceNotFound, apperror.KindOf(err))
		assert.Equal(t, "place not found: StartNowhere", apperror.Message(err))
	}
	assert.Empty(t, r.calls)
}

func TestRouteService_Route_StartErrorCancelsEnd(t *testing.T) {
	g := &fakeGeocoder{
		places: map[string]models.GeocodeResult{"SlowEnd": {Latitude: 1, Longitude: 2}},
		delays: map[string]time.Duration{"SlowEnd": 5 * time.Second},
	}
	r := &fakeRouter{}
	rs := newTestRouteService(g, r)

	begin := time.Now()
	_, err := rs.Route(context.Background(), "StartNowhere", "SlowEnd")

	require.Error(t, err)
	assert.Equal(t, apperror.PlaceNotFound, apperror.KindOf(err))
	assert.Less(t, time.Since(begin), 2*time.Second)
	assert.Empty(t, r.calls)
}

func TestRouteService_Route_EndErrorDoesNotCancelStart(t *testing.T) {
	g := &fakeGeocoder{
		delays: map[string]time.Duration{"SlowStart": 50 * time.Millisecond},
		errs: map[string]error{
			"SlowStart": apperror.New(apperror.GeocodingServiceUnavailable, "geocoding service unavailable"),
		},
	}
	rs := newTestRouteService(g, &fakeRouter{})

	// end fails immediately; the start's own failure is still the one reported
	_, err := rs.Route(context.Background(), "SlowStart", "EndNowhere")
	require.Error(t, err)
	assert.Equal(t, apperror.GeocodingServiceUnavailable, apperror.KindOf(err))
	assert.Equal(t, "geocoding service unavailable", apperror.Message(err))

	g.errs = nil
	g.places = map[string]models.GeocodeResult{"SlowStart": {Latitude: 3, Longitude: 4}}
	_, err = rs.Route(context.Background(), "SlowStart", "EndNowhere")
	require.Error(t, err)
	assert.Equal(t, apperror.PlaceNotFound, apperror.KindOf(err))
	assert.Equal(t, "place not found: EndNowhere", apperror.Message(err))
}

func TestRouteService_Route_EndError(t *testing.T) {
	g := &fakeGeocoder{errs: map[string]error{
		"Berlin": apperror.New(apperror.GeocodingServiceUnavailable, "geocoding service unavailable"),
	}}
	r := &fakeRouter{}
	rs := newTestRouteService(g, r)

	_, err := rs.Route(context.Background(), "40,-73", "Berlin")
	require.Error(t, err)
	assert.Equal(t, apperror.GeocodingServiceUnavailable, apperror.KindOf(err))
	assert.Empty(t, r.calls)
}

func TestRouteService_Route_RouterError(t *testing.T) {
	r := &fakeRouter{err: apperror.New(apperror.NoRouteFound, "no route found")}
	rs := newTestRouteService(nil, r)

	_, err := rs.Route(context.Background(), "40,-73", "41,-74")
	require.Error(t, err)
	assert.Equal(t, apperror.NoRouteFound, apperror.KindOf(err))
}

func TestRouteService_Route_Idempotent(t *testing.T) {
	r := &fakeRouter{}
	rs := newTestRouteService(nil, r)

	first, err := rs.Route(context.Background(), "40.0,-73.0", "41.0,-74.0")
	require.NoError(t, err)
	second, err := rs.Route(context.Background(), "40.0,-73.0", "41.0,-74.0")
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, a, b)
}

func TestRouteService_ResolveLocation(t *testing.T) {
	g := &fakeGeocoder{places: map[string]models.GeocodeResult{
		"Oslo": {Latitude: 59.91, Longitude: 10.75},
	}}
	rs := newTestRouteService(g, &fakeRouter{})

	c, err := rs.ResolveLocation(context.Background(), " 59.91,10.75 ")
	require.NoError(t, err)
	assert.Equal(t, 59.91, c.Latitude)
	assert.Equal(t, 10.75, c.Longitude)
	assert.Zero(t, g.calls())

	c, err = rs.ResolveLocation(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.Equal(t, 10.75, c.Longitude)
	assert.Equal(t, 1, g.calls())

	// "40, -73" does not match the coordinate pattern and goes to the geocoder
	_, err = rs.ResolveLocation(context.Background(), "40, -73")
	require.Error(t, err)
	assert.Equal(t, apperror.PlaceNotFound, apperror.KindOf(err))
}

func TestRouteService_Geocode(t *testing.T) {
	g := &fakeGeocoder{places: map[string]models.GeocodeResult{
		"Paris": {Latitude: 48.8566, Longitude: 2.3522, DisplayName: "Paris, France"},
	}}
	rs := newTestRouteService(g, &fakeRouter{})

	res, err := rs.Geocode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris, France", res.DisplayName)

	_, err = rs.Geocode(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, apperror.MissingParameter, apperror.KindOf(err))
	assert.Equal(t, 1, g.calls())
}
