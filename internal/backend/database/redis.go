package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDatabase keeps each setting in a hash named "<table>:<key>" with the
// fields value and updated_at.
type RedisDatabase struct {
	client *redis.Client
	prefix string
}

func NewRedisDatabase(connectionString, table string) (*RedisDatabase, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	options, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	return &RedisDatabase{
		client: redis.NewClient(options),
		prefix: table + ":",
	}, nil
}

// CreateDatabase only checks connectivity; hashes need no schema.
func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) SetSetting(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := r.client.HSet(ctx, r.prefix+key,
		"value", value,
		"updated_at", time.Now().UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		return &UpsertError{Key: key, Err: err}
	}
	return nil
}

func (r *RedisDatabase) GetSetting(ctx context.Context, key string) (*Setting, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+key).Result()
	if err != nil {
		return nil, err
	}
	value, ok := fields["value"]
	if !ok {
		return nil, nil
	}

	setting := &Setting{Key: key, Value: value}
	if raw := fields["updated_at"]; raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at of %s: %w", key, err)
		}
		setting.UpdatedAt = ts
	}
	return setting, nil
}
