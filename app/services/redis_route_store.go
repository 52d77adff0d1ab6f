package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"go.uber.org/zap"
)

// DefaultRedisRetention số route tối đa giữ trong Redis, route cũ hơn bị xoá khi lưu
const DefaultRedisRetention = 1000

// RedisRouteStore persistence gateway sử dụng Redis: mỗi route là một key JSON,
// danh sách ID được giữ trong một list (mới nhất ở đầu)
type RedisRouteStore struct {
	client *redis.Client
	logger *zap.Logger
	prefix    string
	retention int64
	now       func() time.Time
}

// NewRedisRouteStore tạo mới RedisRouteStore từ URL
func NewRedisRouteStore(redisURL string, logger *zap.Logger) (*RedisRouteStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	return NewRedisRouteStoreWithClient(client, logger), nil
}

// NewRedisRouteStoreWithClient tạo RedisRouteStore từ client có sẵn
func NewRedisRouteStoreWithClient(client *redis.Client, logger *zap.Logger) *RedisRouteStore {
	return &RedisRouteStore{
		client:    client,
		logger:    logger,
		prefix:    "route_planner:",
		retention: DefaultRedisRetention,
		now:       time.Now,
	}
}

func (rrs *RedisRouteStore) routeKey(id string) string { return rrs.prefix + "route:" + id }

func (rrs *RedisRouteStore) indexKey() string { return rrs.prefix + "routes" }

// SaveRoute lưu route, đẩy ID vào đầu danh sách và cắt danh sách còn retention phần tử
func (rrs *RedisRouteStore) SaveRoute(ctx context.Context, name string, geometry map[string]interface{}) (string, error) {
	route := models.NewSavedRoute(name, geometry, rrs.now())
	route.ID = uuid.NewString()

	data, err := json.Marshal(route)
	if err != nil {
		return "", apperror.Wrap(apperror.PersistenceWriteFailed, err, "failed to save route")
	}

	var expired *redis.StringSliceCmd
	_, err = rrs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, rrs.routeKey(route.ID), data, 0)
		pipe.LPush(ctx, rrs.indexKey(), route.ID)
		expired = pipe.LRange(ctx, rrs.indexKey(), rrs.retention, -1)
		pipe.LTrim(ctx, rrs.indexKey(), 0, rrs.retention-1)
		return nil
	})
	if err != nil {
		rrs.logger.Error("Lỗi lưu route vào Redis", zap.Error(err), zap.String("id", route.ID))
		return "", apperror.Wrap(apperror.PersistenceWriteFailed, err, "failed to save route")
	}

	rrs.deleteRoutes(ctx, expired.Val())

	rrs.logger.Debug("Đã lưu route vào Redis", zap.String("id", route.ID))
	return route.ID, nil
}

// deleteRoutes xoá record của các ID đã bị cắt khỏi danh sách
func (rrs *RedisRouteStore) deleteRoutes(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = rrs.routeKey(id)
	}
	if err := rrs.client.Del(ctx, keys...).Err(); err != nil {
		rrs.logger.Warn("Lỗi xoá routes cũ khỏi Redis", zap.Error(err), zap.Int("count", len(keys)))
	}
}

// ListRoutes lấy các route mới nhất
func (rrs *RedisRouteStore) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	ids, err := rrs.client.LRange(ctx, rrs.indexKey(), 0, int64(normalizeLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy danh sách routes: %w", err)
	}

	routes := []models.SavedRoute{}
	if len(ids) == 0 {
		return routes, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = rrs.routeKey(id)
	}

	values, err := rrs.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc routes: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var route models.SavedRoute
		if err := json.Unmarshal([]byte(raw), &route); err != nil {
			rrs.logger.Warn("Lỗi unmarshal route", zap.Error(err), zap.String("id", ids[i]))
			continue
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// Driver tên backend
func (rrs *RedisRouteStore) Driver() string { return DriverRedis }

// Ping kiểm tra kết nối Redis
func (rrs *RedisRouteStore) Ping(ctx context.Context) error {
	return rrs.client.Ping(ctx).Err()
}

// Close đóng kết nối Redis
func (rrs *RedisRouteStore) Close(ctx context.Context) error {
	return rrs.client.Close()
}
