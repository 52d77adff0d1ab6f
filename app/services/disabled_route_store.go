package services

import (
	"context"

	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
)

// DisabledRouteStore store dùng khi persistence không được cấu hình:
// ghi thì lỗi PersistenceUnavailable, đọc thì luôn rỗng
type DisabledRouteStore struct{}

// NewDisabledRouteStore tạo mới DisabledRouteStore
func NewDisabledRouteStore() *DisabledRouteStore {
	return &DisabledRouteStore{}
}

func (DisabledRouteStore) SaveRoute(ctx context.Context, name string, geometry map[string]interface{}) (string, error) {
	return "", apperror.New(apperror.PersistenceUnavailable, "persistence not configured")
}

func (DisabledRouteStore) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	return []models.SavedRoute{}, nil
}

func (DisabledRouteStore) Driver() string { return DriverNone }

func (DisabledRouteStore) Ping(ctx context.Context) error { return nil }

func (DisabledRouteStore) Close(ctx context.Context) error { return nil }
