package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type roomAuditLogRepository struct {
	logs      *mongo.Collection
	retention time.Duration
}

// NewRoomAuditLogRepository stores audit entries in Mongo. Entries older
// than retention are removed by a TTL index.
func NewRoomAuditLogRepository(database *mongo.Database, retention time.Duration) domain.RoomAuditRepository {
	return &roomAuditLogRepository{
		logs:      database.Collection(db.RoomAuditLogsCollection),
		retention: retention,
	}
}

func (r *roomAuditLogRepository) GetByRoomID(ctx context.Context, roomID string, limit int) ([]domain.RoomAuditLog, error) {
	newestFirst := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		newestFirst.SetLimit(int64(limit))
	}

	cursor, err := r.logs.Find(ctx, bson.M{"room_id": roomID}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("find audit logs for %s: %w", roomID, err)
	}
	defer cursor.Close(ctx)

	entries := []domain.RoomAuditLog{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode audit logs for %s: %w", roomID, err)
	}
	return entries, nil
}

func (r *roomAuditLogRepository) Log(ctx context.Context, log *domain.RoomAuditLog) error {
	if log == nil || log.RoomID == "" {
		return domain.ErrInvalidInput
	}

	_, err := r.logs.InsertOne(ctx, log)
	switch {
	case mongo.IsDuplicateKeyError(err):
		// redelivered message
		return nil
	case err != nil:
		return fmt.Errorf("insert audit log %s: %w", log.ID, err)
	}
	return nil
}

func (r *roomAuditLogRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}
	if r.retention > 0 {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(r.retention.Seconds())),
		})
	}

	_, err := r.logs.Indexes().CreateMany(ctx, indexes)
	return err
}
