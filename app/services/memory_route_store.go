package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/route-planner/app/models"
)

// MemoryRouteStore persistence gateway in-memory, giới hạn số lượng bằng LRU.
// Dữ liệu mất khi restart; dùng cho dev và test.
type MemoryRouteStore struct {
	routes *lru.Cache[string, models.SavedRoute]
	now    func() time.Time
}

// NewMemoryRouteStore tạo mới MemoryRouteStore giữ tối đa size route
func NewMemoryRouteStore(size int) (*MemoryRouteStore, error) {
	routes, err := lru.New[string, models.SavedRoute](size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU store: %w", err)
	}
	return &MemoryRouteStore{routes: routes, now: time.Now}, nil
}

// SaveRoute lưu route, route cũ nhất bị loại khi đầy
func (mrs *MemoryRouteStore) SaveRoute(ctx context.Context, name string, geometry map[string]interface{}) (string, error) {
	route := models.NewSavedRoute(name, geometry, mrs.now())
	route.ID = uuid.NewString()
	mrs.routes.Add(route.ID, *route)
	return route.ID, nil
}

// ListRoutes lấy các route mới nhất. Peek không làm thay đổi thứ tự LRU nên
// thứ tự key luôn là thứ tự insert.
func (mrs *MemoryRouteStore) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	limit = normalizeLimit(limit)
	keys := mrs.routes.Keys()

	routes := make([]models.SavedRoute, 0, limit)
	for i := len(keys) - 1; i >= 0 && len(routes) < limit; i-- {
		if route, ok := mrs.routes.Peek(keys[i]); ok {
			routes = append(routes, route)
		}
	}
	return routes, nil
}

// Driver tên backend
func (mrs *MemoryRouteStore) Driver() string { return DriverMemory }

// Ping luôn thành công
func (mrs *MemoryRouteStore) Ping(ctx context.Context) error { return nil }

// Close xoá dữ liệu
func (mrs *MemoryRouteStore) Close(ctx context.Context) error {
	mrs.routes.Purge()
	return nil
}
