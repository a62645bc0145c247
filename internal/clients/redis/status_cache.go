package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/types"
)

// StatusEntry is the cached projection of one exam for the polling read:
// enough to answer the status endpoint without touching Postgres.
type StatusEntry struct {
	UserID uuid.UUID        `json:"user_id"`
	Status types.ExamStatus `json:"status"`
	HasDI  bool             `json:"has_di"`
}

// StatusCache absorbs the client polling loop. It is best-effort: misses and
// redis errors fall through to the database, and every status transition
// invalidates the key.
type StatusCache interface {
	Get(ctx context.Context, examID uuid.UUID) (*StatusEntry, bool)
	Set(ctx context.Context, examID uuid.UUID, entry StatusEntry)
	Invalidate(ctx context.Context, examID uuid.UUID)
}

type statusCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewStatusCache(log *logger.Logger) (StatusCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return &statusCache{
		log: log.With("client", "StatusCache"),
		rdb: rdb,
		ttl: 30 * time.Second,
	}, nil
}

func statusKey(examID uuid.UUID) string {
	return "exam:" + examID.String() + ":status"
}

func (c *statusCache) Get(ctx context.Context, examID uuid.UUID) (*StatusEntry, bool) {
	val, err := c.rdb.Get(ctx, statusKey(examID)).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("status cache read failed", "exam_id", examID, "error", err)
		return nil, false
	}
	var entry StatusEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		c.log.Warn("status cache entry corrupt", "exam_id", examID, "error", err)
		return nil, false
	}
	return &entry, true
}

func (c *statusCache) Set(ctx context.Context, examID uuid.UUID, entry StatusEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statusKey(examID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("status cache write failed", "exam_id", examID, "error", err)
	}
}

func (c *statusCache) Invalidate(ctx context.Context, examID uuid.UUID) {
	if err := c.rdb.Del(ctx, statusKey(examID)).Err(); err != nil {
		c.log.Warn("status cache invalidate failed", "exam_id", examID, "error", err)
	}
}
