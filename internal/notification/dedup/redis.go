package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fkhayef/checkin/internal/localtime"
)

// DefaultRedisTTL keeps a marker long enough to cover the whole local day plus clock skew
const DefaultRedisTTL = 48 * time.Hour

// RedisStore keeps artifacts as keys created with SET NX
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreWithURL creates a store from a redis:// URL
func NewRedisStoreWithURL(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), DefaultRedisTTL), nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(kind Kind, scopeID uuid.UUID, date localtime.Date) string {
	return fmt.Sprintf("checkin:artifact:%s:%s:%s", kind, scopeID, date)
}

type redisArtifact struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Exists reports whether the marker key exists
func (s *RedisStore) Exists(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(kind, scopeID, date)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check artifact key: %w", err)
	}
	return n > 0, nil
}

// Insert sets the marker only if it is absent
func (s *RedisStore) Insert(ctx context.Context, a *Artifact) (bool, error) {
	a.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(redisArtifact{ID: a.ID, Content: a.Content, CreatedAt: a.CreatedAt})
	if err != nil {
		return false, fmt.Errorf("marshal artifact: %w", err)
	}

	err = s.client.SetArgs(ctx, redisKey(a.Kind, a.ScopeID, a.Date), payload, redis.SetArgs{
		Mode: "NX",
		TTL:  s.ttl,
	}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to set artifact key: %w", err)
	}
	return true, nil
}

// Get reads the marker payload
func (s *RedisStore) Get(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (*Artifact, error) {
	raw, err := s.client.Get(ctx, redisKey(kind, scopeID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to get artifact key: %w", err)
	}

	var stored redisArtifact
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}
	return &Artifact{
		ID:        stored.ID,
		Kind:      kind,
		ScopeID:   scopeID,
		Date:      date,
		Content:   stored.Content,
		CreatedAt: stored.CreatedAt,
	}, nil
}
