package services

import (
	"context"
	"testing"
	"time"

	"github.com/route-planner/app/config"
	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func lineString() map[string]interface{} {
	return map[string]interface{}{
		"type":        "LineString",
		"coordinates": []interface{}{[]interface{}{-73.0, 40.0}, []interface{}{-74.0, 41.0}},
	}
}

func TestDisabledRouteStore(t *testing.T) {
	store := NewDisabledRouteStore()
	ctx := context.Background()

	_, err := store.SaveRoute(ctx, "Commute", lineString())
	require.Error(t, err)
	assert.Equal(t, apperror.PersistenceUnavailable, apperror.KindOf(err))

	routes, err := store.ListRoutes(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
	assert.Equal(t, DriverNone, store.Driver())
}

func TestMemoryRouteStore_SaveAndList(t *testing.T) {
	store, err := NewMemoryRouteStore(10)
	require.NoError(t, err)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ctx := context.Background()

	firstID, err := store.SaveRoute(ctx, "Commute", lineString())
	require.NoError(t, err)
	secondID, err := store.SaveRoute(ctx, "", lineString())
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	routes, err := store.ListRoutes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, secondID, routes[0].ID)
	assert.Equal(t, models.DefaultRouteName, routes[0].Name)
	assert.Equal(t, firstID, routes[1].ID)
	assert.Equal(t, "Commute", routes[1].Name)
	assert.Equal(t, "LineString", routes[1].Geometry["type"])
	assert.True(t, routes[0].CreatedAt.After(routes[1].CreatedAt))
}

func TestMemoryRouteStore_LimitAndEviction(t *testing.T) {
	store, err := NewMemoryRouteStore(3)
	require.NoError(t, err)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := store.SaveRoute(ctx, "r", lineString())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	routes, err := store.ListRoutes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, ids[4], routes[0].ID)
	assert.Equal(t, ids[2], routes[2].ID)

	routes, err = store.ListRoutes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, ids[4], routes[0].ID)

	require.NoError(t, store.Close(ctx))
	routes, err = store.ListRoutes(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestMemoryRouteStore_InvalidSize(t *testing.T) {
	_, err := NewMemoryRouteStore(0)
	assert.Error(t, err)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, normalizeLimit(0))
	assert.Equal(t, DefaultListLimit, normalizeLimit(-1))
	assert.Equal(t, DefaultListLimit, normalizeLimit(1000))
	assert.Equal(t, 7, normalizeLimit(7))
}

func TestNewRouteStore(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	store := NewRouteStore(ctx, config.PersistenceConfig{Driver: "auto"}, logger)
	assert.Equal(t, DriverNone, store.Driver())

	store = NewRouteStore(ctx, config.PersistenceConfig{Driver: "memory", MemorySize: 5}, logger)
	assert.Equal(t, DriverMemory, store.Driver())

	// invalid memory size degrades to disabled
	store = NewRouteStore(ctx, config.PersistenceConfig{Driver: "memory", MemorySize: 0}, logger)
	assert.Equal(t, DriverNone, store.Driver())

	// unparseable redis url degrades to disabled
	store = NewRouteStore(ctx, config.PersistenceConfig{Driver: "redis", RedisURL: "not a url"}, logger)
	assert.Equal(t, DriverNone, store.Driver())
}
