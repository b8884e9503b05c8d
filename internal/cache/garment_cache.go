package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"secondhand-market/internal/model"
)

type GarmentCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewGarmentCache(client *redisv9.Client, ttl time.Duration) *GarmentCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GarmentCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *GarmentCache) Get(ctx context.Context, id uint) (*model.Garment, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get garment failed: %w", err)
	}

	var garment model.Garment
	if err := json.Unmarshal([]byte(raw), &garment); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached garment failed: %w", err)
	}
	return &garment, true, nil
}

func (c *GarmentCache) Set(ctx context.Context, garment *model.Garment) error {
	payload, err := json.Marshal(garment)
	if err != nil {
		return fmt.Errorf("marshal garment cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(garment.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set garment failed: %w", err)
	}
	return nil
}

func (c *GarmentCache) Delete(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete garment failed: %w", err)
	}
	return nil
}

func (c *GarmentCache) key(id uint) string {
	return fmt.Sprintf("market:garment:%d", id)
}
