package services

import (
	"context"

	"github.com/route-planner/app/models"
)

// DefaultListLimit số route tối đa trả về khi list
const DefaultListLimit = 50

const (
	DriverNone   = "none"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// IRouteStore interface persistence gateway cho saved routes.
// Route computation không phụ thuộc vào store này.
type IRouteStore interface {
	// SaveRoute lưu một route, trả về ID
	SaveRoute(ctx context.Context, name string, geometry map[string]interface{}) (string, error)

	// ListRoutes lấy tối đa limit route, mới nhất trước
	ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error)

	// Driver tên backend đang dùng
	Driver() string

	// Ping kiểm tra kết nối
	Ping(ctx context.Context) error

	// Close đóng kết nối
	Close(ctx context.Context) error
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
