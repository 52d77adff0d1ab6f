package routes

// Routes package cung cấp routing và middleware cho Route Planner Service
//
// Cấu trúc:
// - api.go: API routes (/geocode, /route, /save-route, /routes), health, metrics
// - web.go: Web routes (/, /docs)
// - middleware.go: request ID, access log, recovery, CORS
//
// Sử dụng:
// routes.SetupAllRoutes(router, controller, options)
