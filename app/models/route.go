package models

import (
	"encoding/json"
	"time"

	"github.com/route-planner/internal/geo"
)

// DefaultRouteName tên mặc định khi client không gửi name
const DefaultRouteName = "Unnamed"

// GeocodeResult kết quả geocode một địa danh
type GeocodeResult struct {
	Latitude    float64 `json:"lat"`          // Vĩ độ
	Longitude   float64 `json:"lon"`          // Kinh độ
	DisplayName string  `json:"display_name"` // Tên hiển thị do provider trả về
}

// Coordinate trả về toạ độ của kết quả geocode
func (g GeocodeResult) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: g.Latitude, Longitude: g.Longitude}
}

// RouteResult kết quả tính tuyến đường từ routing backend
type RouteResult struct {
	DistanceMeters  float64         `json:"distance_meters"`  // Tổng quãng đường (m)
	DurationSeconds float64         `json:"duration_seconds"` // Tổng thời gian (s)
	Geometry        json.RawMessage `json:"geometry"`         // GeoJSON LineString, giữ nguyên như backend trả về
}

// ResolvedRoute tuyến đường đã tính kèm toạ độ đã chuẩn hoá của hai đầu
type ResolvedRoute struct {
	RouteResult
	StartCoords string `json:"start_coords"` // "lon,lat" đã gửi tới routing backend
	EndCoords   string `json:"end_coords"`   // "lon,lat" đã gửi tới routing backend
}

// SavedRoute tuyến đường đã lưu trong persistence store
type SavedRoute struct {
	ID        string                 `bson:"-" json:"id"`                  // ID do store sinh ra
	Name      string                 `bson:"name" json:"name"`             // Tên tuyến
	Geometry  map[string]interface{} `bson:"geo" json:"geo"`               // GeoJSON object client gửi lên
	CreatedAt time.Time              `bson:"created_at" json:"created_at"` // Thời gian tạo
}

// NewSavedRoute tạo mới một SavedRoute, name rỗng sẽ dùng DefaultRouteName
func NewSavedRoute(name string, geometry map[string]interface{}, now time.Time) *SavedRoute {
	if name == "" {
		name = DefaultRouteName
	}
	return &SavedRoute{
		Name:      name,
		Geometry:  geometry,
		CreatedAt: now.UTC(),
	}
}
