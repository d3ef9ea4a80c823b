package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tls-constraints/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const reservationsKey = "reservations:identifiers"

// RedisClient is the subset of redis.UniversalClient the store needs, kept
// narrow so tests can stub it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore persists the reservation table as a single JSON document in the
// shared Redis collaborator.
type RedisStore struct {
	client RedisClient
	logger *slog.Logger
}

func NewRedisStore(client RedisClient, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
	}
}

func (s *RedisStore) Get(ctx context.Context) (Table, error) {
	timer := time.Now()
	data, err := s.client.Get(ctx, reservationsKey).Result()
	metrics.StoreOperationDuration.WithLabelValues(metrics.StoreTypeRedis, metrics.StoreOperationTypeGet).Observe(time.Since(timer).Seconds())

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewTable(), nil
		}
		metrics.StoreErrorsTotal.WithLabelValues(metrics.StoreTypeRedis, metrics.StoreOperationTypeGet).Inc()
		s.logger.Error("error executing redis GET", "key", reservationsKey, "error", err)
		return Table{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var table Table
	if err := json.Unmarshal([]byte(data), &table); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(metrics.StoreTypeRedis, metrics.StoreOperationTypeGet).Inc()
		s.logger.Error("error unmarshalling reservation table", "error", err)
		return Table{}, fmt.Errorf("%w: corrupt reservation document: %v", ErrStoreUnavailable, err)
	}
	table.ensureMaps()

	return table, nil
}

func (s *RedisStore) Put(ctx context.Context, table Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation table: %w", err)
	}

	timer := time.Now()
	err = s.client.Set(ctx, reservationsKey, data, 0).Err()
	metrics.StoreOperationDuration.WithLabelValues(metrics.StoreTypeRedis, metrics.StoreOperationTypePut).Observe(time.Since(timer).Seconds())

	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(metrics.StoreTypeRedis, metrics.StoreOperationTypePut).Inc()
		s.logger.Error("error executing redis SET", "key", reservationsKey, "error", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Healthy reports whether the collaborator currently answers.
func (s *RedisStore) Healthy(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}
