package services

import (
	"context"
	"fmt"
	"time"

	"github.com/route-planner/app/models"
	"github.com/route-planner/internal/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// savedRouteDocument document lưu trong collection routes
type savedRouteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Geo       bson.M             `bson:"geo"`
	CreatedAt time.Time          `bson:"created_at"`
}

// MongoRouteStore persistence gateway sử dụng MongoDB
type MongoRouteStore struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

// ConnectMongo kết nối MongoDB và ping thử, trả về database
func ConnectMongo(ctx context.Context, uri, dbName string, logger *zap.Logger) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("không thể kết nối MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("không thể ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName), nil
}

// NewMongoRouteStore tạo mới MongoRouteStore và đảm bảo index created_at
func NewMongoRouteStore(db *mongo.Database, collectionName string, logger *zap.Logger) *MongoRouteStore {
	if collectionName == "" {
		collectionName = "routes"
	}
	collection := db.Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{bson.E{Key: "created_at", Value: -1}},
	})
	if err != nil {
		logger.Warn("Không thể tạo index cho routes", zap.Error(err))
	}

	return &MongoRouteStore{
		db:         db,
		collection: collection,
		logger:     logger,
		now:        time.Now,
	}
}

// SaveRoute insert một route mới
func (mrs *MongoRouteStore) SaveRoute(ctx context.Context, name string, geometry map[string]interface{}) (string, error) {
	route := models.NewSavedRoute(name, geometry, mrs.now())
	doc := savedRouteDocument{
		Name:      route.Name,
		Geo:       bson.M(route.Geometry),
		CreatedAt: route.CreatedAt,
	}

	result, err := mrs.collection.InsertOne(ctx, doc)
	if err != nil {
		mrs.logger.Error("Lỗi lưu route vào MongoDB", zap.Error(err))
		return "", apperror.Wrap(apperror.PersistenceWriteFailed, err, "failed to save route")
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(result.InsertedID), nil
	}
	return id.Hex(), nil
}

// ListRoutes lấy các route mới nhất
func (mrs *MongoRouteStore) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(int64(normalizeLimit(limit)))

	cursor, err := mrs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query routes: %w", err)
	}
	defer cursor.Close(ctx)

	routes := []models.SavedRoute{}
	for cursor.Next(ctx) {
		var doc savedRouteDocument
		if err := cursor.Decode(&doc); err != nil {
			mrs.logger.Warn("Lỗi decode route", zap.Error(err))
			continue
		}
		routes = append(routes, models.SavedRoute{
			ID:        doc.ID.Hex(),
			Name:      doc.Name,
			Geometry:  plainMap(doc.Geo),
			CreatedAt: doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("lỗi đọc cursor routes: %w", err)
	}

	return routes, nil
}

// Driver tên backend
func (mrs *MongoRouteStore) Driver() string { return DriverMongo }

// Ping kiểm tra kết nối MongoDB
func (mrs *MongoRouteStore) Ping(ctx context.Context) error {
	return mrs.db.Client().Ping(ctx, readpref.Primary())
}

// Close đóng kết nối MongoDB
func (mrs *MongoRouteStore) Close(ctx context.Context) error {
	return mrs.db.Client().Disconnect(ctx)
}

// plainMap chuyển các kiểu bson lồng nhau về map/slice thường để encode JSON
func plainMap(m bson.M) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		return plainMap(val)
	case map[string]interface{}:
		return plainMap(bson.M(val))
	case bson.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.A:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = plainValue(item)
		}
		return s
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = plainValue(item)
		}
		return s
	default:
		return val
	}
}
