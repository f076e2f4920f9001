package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/codeboard/internal/domain"
)

// Oldest entries of a room are evicted when capacity is exceeded.
type roomAuditLogRepository struct {
	logs     map[string][]domain.RoomAuditLog // roomID -> entries, oldest first
	capacity int
	mu       sync.RWMutex
}

func NewRoomAuditLogRepository(capacity int) domain.RoomAuditRepository {
	if capacity <= 0 {
		capacity = 200
	}
	return &roomAuditLogRepository{
		capacity: capacity,
		logs:     make(map[string][]domain.RoomAuditLog),
	}
}

func (r *roomAuditLogRepository) Log(ctx context.Context, log *domain.RoomAuditLog) error {
	if log == nil || log.RoomID == "" {
		return domain.ErrInvalidInput
	}

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.logs[log.RoomID], *log)
	if excess := len(entries) - r.capacity; excess > 0 {
		entries = entries[excess:]
	}
	r.logs[log.RoomID] = entries

	return nil
}

func (r *roomAuditLogRepository) GetByRoomID(ctx context.Context, roomID string, limit int) ([]domain.RoomAuditLog, error) {
	if roomID == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.logs[roomID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	out := make([]domain.RoomAuditLog, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (r *roomAuditLogRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
