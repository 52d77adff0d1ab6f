package requests

// GeocodeQuery query string của GET /geocode
type GeocodeQuery struct {
	Q string `form:"q"` // Địa danh cần geocode
}

// RouteQuery query string của GET /route
type RouteQuery struct {
	Start string `form:"start"` // "lat,lon" hoặc tên địa danh
	End   string `form:"end"`   // "lat,lon" hoặc tên địa danh
}

// SaveRouteRequest body của POST /save-route
type SaveRouteRequest struct {
	Name string                 `json:"name,omitempty"` // Tên tuyến (mặc định "Unnamed")
	Geo  map[string]interface{} `json:"geo"`            // GeoJSON object cần lưu
}
