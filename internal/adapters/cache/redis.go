package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisDeviceCache caches GetByID lookups. Failures degrade to a miss so a
// cache outage never breaks a read.
type RedisDeviceCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisDeviceCache(client *redis.Client, logger *slog.Logger) *RedisDeviceCache {
	return &RedisDeviceCache{client: client, logger: logger}
}

type cachedDevice struct {
	ID             int64          `json:"id"`
	ExternalID     *int64         `json:"external_id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	ConnectionInfo map[string]any `json:"connection_info"`
	Tags           []string       `json:"tags"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func deviceKey(id int64) string {
	return fmt.Sprintf("device:%d", id)
}

func (c *RedisDeviceCache) Get(ctx context.Context, id int64) (domain.Device, bool) {
	raw, err := c.client.Get(ctx, deviceKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "device cache read failed", "device_id", id, "error", err)
		}
		return domain.Device{}, false
	}
	var rec cachedDevice
	if err := json.Unmarshal(raw, &rec); err != nil {
		c.logger.WarnContext(ctx, "device cache entry corrupt", "device_id", id, "error", err)
		return domain.Device{}, false
	}
	return domain.Device{
		ID: rec.ID, ExternalID: rec.ExternalID, Name: rec.Name, Type: rec.Type,
		Description: rec.Description, Location: rec.Location,
		ConnectionInfo: rec.ConnectionInfo, Tags: rec.Tags,
		CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt,
	}, true
}

func (c *RedisDeviceCache) Set(ctx context.Context, device domain.Device, ttl time.Duration) {
	raw, err := json.Marshal(cachedDevice{
		ID: device.ID, ExternalID: device.ExternalID, Name: device.Name, Type: device.Type,
		Description: device.Description, Location: device.Location,
		ConnectionInfo: device.ConnectionInfo, Tags: device.Tags,
		CreatedAt: device.CreatedAt, UpdatedAt: device.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, deviceKey(device.ID), raw, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "device cache write failed", "device_id", device.ID, "error", err)
	}
}

func (c *RedisDeviceCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, deviceKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "device cache invalidate failed", "device_id", id, "error", err)
	}
}
