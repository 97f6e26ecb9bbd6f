// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// categories.go provides a Valkey-backed snapshot of the category list.
// The list is read on every archive render but changes rarely, so the
// serialized rows are kept in Valkey and invalidated on every folder
// mutation. Recipes always travel under their canonical numeric id, so
// no per-recipe payload is cached here.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"rezepta/internal/models"
)

const (
	// categoriesKey is the Valkey key holding the category snapshot.
	categoriesKey = "categories:list"

	// DefaultCategoryTTL bounds staleness if an invalidation is missed.
	DefaultCategoryTTL = 5 * time.Minute
)

// CategoryCache keeps the serialized category list in Valkey.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category cache backed by the given Valkey client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl == 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Get retrieves the cached category list. Returns false on miss.
func (cc *CategoryCache) Get(ctx context.Context) ([]models.Category, bool) {
	val, err := cc.client.Get(ctx, categoriesKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "error", err)
		return nil, false
	}

	var items []models.Category
	if err := json.Unmarshal(val, &items); err != nil {
		slog.Warn("category cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("category cache hit", "count", len(items))
	return items, true
}

// Set stores the category list with the configured TTL.
func (cc *CategoryCache) Set(ctx context.Context, items []models.Category) {
	payload, err := json.Marshal(items)
	if err != nil {
		slog.Warn("category cache encode error", "error", err)
		return
	}
	if err := cc.client.Set(ctx, categoriesKey, payload, cc.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "error", err)
	}
}

// Invalidate drops the snapshot. Called after every folder mutation.
func (cc *CategoryCache) Invalidate(ctx context.Context) {
	if err := cc.client.Del(ctx, categoriesKey).Err(); err != nil {
		slog.Warn("category cache invalidate error", "error", err)
	}
	slog.Debug("category cache invalidated")
}
