package services

import (
	"context"

	"github.com/route-planner/app/config"
	"go.uber.org/zap"
)

// NewRouteStore khởi tạo persistence gateway theo cấu hình. Store được tạo một lần
// lúc khởi động; nếu không kết nối được thì chạy tiếp với DisabledRouteStore để
// route computation không bị ảnh hưởng.
func NewRouteStore(ctx context.Context, cfg config.PersistenceConfig, logger *zap.Logger) IRouteStore {
	driver := cfg.ResolvedDriver()

	switch driver {
	case DriverMongo:
		db, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			logger.Warn("MongoDB không khả dụng, tắt persistence", zap.Error(err))
			return NewDisabledRouteStore()
		}
		return NewMongoRouteStore(db, cfg.Collection, logger)

	case DriverRedis:
		store, err := NewRedisRouteStore(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("Redis không khả dụng, tắt persistence", zap.Error(err))
			return NewDisabledRouteStore()
		}
		return store

	case DriverMemory:
		store, err := NewMemoryRouteStore(cfg.MemorySize)
		if err != nil {
			logger.Warn("Không tạo được memory store, tắt persistence", zap.Error(err))
			return NewDisabledRouteStore()
		}
		return store

	default:
		logger.Info("Persistence không được cấu hình")
		return NewDisabledRouteStore()
	}
}
