package services

import (
	"context"
	"strings"
	"time"

	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"github.com/route-planner/internal/geo"
	"github.com/route-planner/internal/geocoder"
	"github.com/route-planner/internal/routing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RouteService chuẩn hoá input start/end, gọi geocoder/router và ghép kết quả
type RouteService struct {
	geocoder  geocoder.Geocoder
	router    routing.Router
	logger    *zap.Logger
	startTime time.Time
}

// NewRouteService tạo mới RouteService
func NewRouteService(g geocoder.Geocoder, r routing.Router, logger *zap.Logger) *RouteService {
	return &RouteService{
		geocoder:  g,
		router:    r,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetStartTime thời điểm service khởi động
func (rs *RouteService) GetStartTime() time.Time {
	return rs.startTime
}

// Geocode geocode một địa danh
func (rs *RouteService) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.New(apperror.MissingParameter, "q required")
	}
	return rs.geocoder.Geocode(ctx, query)
}

// ResolveLocation chuyển input thành toạ độ: chuỗi "lat,lon" được parse trực tiếp,
// còn lại được geocode
func (rs *RouteService) ResolveLocation(ctx context.Context, input string) (geo.Coordinate, error) {
	input = strings.TrimSpace(input)
	if geo.IsCoordinate(input) {
		return geo.ParseCoordinate(input)
	}

	place, err := rs.geocoder.Geocode(ctx, input)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return place.Coordinate(), nil
}

// Route tính tuyến đường giữa start và end. Hai đầu được resolve song song;
// nếu cả hai lỗi thì lỗi của start được trả về, giống như khi chạy tuần tự.
func (rs *RouteService) Route(ctx context.Context, start, end string) (*models.ResolvedRoute, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, apperror.New(apperror.MissingParameter, "start and end required")
	}

	var (
		startCoord, endCoord geo.Coordinate
		endErr               error
	)
	// Chỉ lỗi của start huỷ gctx; start luôn chạy đến khi có kết quả thật.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		startCoord, err = rs.ResolveLocation(gctx, start)
		return err
	})
	g.Go(func() error {
		endCoord, endErr = rs.ResolveLocation(gctx, end)
		return nil
	})

	if startErr := g.Wait(); startErr != nil {
		rs.logger.Info("Không resolve được start", zap.String("start", start), zap.Error(startErr))
		return nil, startErr
	}
	if endErr != nil {
		rs.logger.Info("Không resolve được end", zap.String("end", end), zap.Error(endErr))
		return nil, endErr
	}

	startLonLat := startCoord.LonLat()
	endLonLat := endCoord.LonLat()

	result, err := rs.router.Route(ctx, startLonLat, endLonLat)
	if err != nil {
		return nil, err
	}

	return &models.ResolvedRoute{
		RouteResult: *result,
		StartCoords: startLonLat,
		EndCoords:   endLonLat,
	}, nil
}
