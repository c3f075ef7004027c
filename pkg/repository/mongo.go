package repository

import (
	"context"
	"sync"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AuditRecorder receives one entry per admin or checkout action.
type AuditRecorder interface {
	Record(ctx context.Context, action, entityID string, data map[string]interface{}) error
}

// AuditReader lists the recorded actions of one entity, newest first.
// A limit of zero or less returns every retained entry.
type AuditReader interface {
	History(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error)
}

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
	service  string
}

func NewMongoRepository(cfg *config.MongoDBConfig, service string) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
		service:  service,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type AuditLog struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	Service   string    `bson:"service" json:"service"`
	Action    string    `bson:"action" json:"action"`
	EntityID  string    `bson:"entity_id" json:"entityId"`
	Data      bson.M    `bson:"data" json:"data,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

func (m *MongoRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	collection := m.database.Collection(m.config.Collection)
	log.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, log)
	return err
}

func (m *MongoRepository) Record(ctx context.Context, action, entityID string, data map[string]interface{}) error {
	return m.CreateAuditLog(ctx, &AuditLog{
		Service:  m.service,
		Action:   action,
		EntityID: entityID,
		Data:     bson.M(data),
	})
}

// History returns the latest entries for entityID, newest first.
func (m *MongoRepository) History(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"entity_id": entityID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []*AuditLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

// LogAuditRecorderCapacity bounds the entries LogAuditRecorder keeps for
// History.
const LogAuditRecorderCapacity = 500

// LogAuditRecorder writes audit entries to the service log when MongoDB
// is disabled. The most recent entries stay in memory for History.
type LogAuditRecorder struct {
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []*AuditLog
}

func NewLogAuditRecorder(logger *zap.Logger) *LogAuditRecorder {
	return &LogAuditRecorder{logger: logger.Named("audit"), now: time.Now}
}

func (l *LogAuditRecorder) Record(_ context.Context, action, entityID string, data map[string]interface{}) error {
	l.logger.Info(action, zap.String("entity_id", entityID), zap.Any("data", data))

	entry := &AuditLog{Action: action, EntityID: entityID, Data: bson.M(data), CreatedAt: l.now()}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == LogAuditRecorderCapacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, entry)
	return nil
}

// History returns the retained entries for entityID, newest first.
func (l *LogAuditRecorder) History(_ context.Context, entityID string, limit int64) ([]*AuditLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	logs := []*AuditLog{}
	for i := len(l.entries) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(logs)) == limit {
			break
		}
		if e := l.entries[i]; e.EntityID == entityID {
			c := *e
			logs = append(logs, &c)
		}
	}
	return logs, nil
}
