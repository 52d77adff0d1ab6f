package responses

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error string `json:"error"` // Thông báo lỗi
}

// OKResponse response của GET /
type OKResponse struct {
	OK bool `json:"ok"`
}

// SaveRouteResponse response của POST /save-route
type SaveRouteResponse struct {
	OK      bool   `json:"ok"`      // Lưu thành công
	ID      string `json:"id"`      // ID của route vừa lưu
	Message string `json:"message"` // Thông báo
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản
	Services  map[string]string `json:"services"`  // Trạng thái các thành phần
}
