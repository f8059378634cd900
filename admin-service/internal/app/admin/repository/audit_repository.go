package repository

import (
	"context"
	"fmt"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository создает репозиторий журнала действий администраторов.
// Автоматически создает индекс по entity_type и timestamp для выборок.
func NewAuditRepository(db *mongo.Database) AuditRepository {
	collection := db.Collection("audit_log")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "entity_type", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("entity_type_timestamp_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Индекс может уже существовать
		logger.Warn().Err(err).Msg("failed to create audit_log index")
	}

	return &auditRepository{collection: collection}
}

// Record сохраняет одну запись журнала
func (r *auditRepository) Record(ctx context.Context, entry *entity.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}

	return nil
}

// ListRecent возвращает последние записи журнала, новые первыми
func (r *auditRepository) ListRecent(ctx context.Context, limit int64) ([]entity.AuditEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []entity.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}
