// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/coursedesk/internal/platform/constants"
)

// RedisDashboardCache implements [DashboardCache] with JSON values under a TTL.
type RedisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDashboardCache creates a Redis-backed dashboard cache.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) *RedisDashboardCache {
	return &RedisDashboardCache{client: client, ttl: ttl}
}

func dashboardKey(educatorID string) string {
	return constants.RedisPrefixDashboard + educatorID
}

/*
Get returns the cached dashboard for an educator.

Returns:
  - *Dashboard: nil on a cache miss
  - error: connectivity or decoding errors
*/
func (cache *RedisDashboardCache) Get(context context.Context, educatorID string) (*Dashboard, error) {
	raw, err := cache.client.Get(context, dashboardKey(educatorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_dashboard_get_failed: %w", err)
	}

	dashboard := &Dashboard{}
	if err := json.Unmarshal(raw, dashboard); err != nil {
		return nil, fmt.Errorf("redis_dashboard_decode_failed: %w", err)
	}
	return dashboard, nil
}

// Set stores a dashboard for the configured TTL.
func (cache *RedisDashboardCache) Set(context context.Context, educatorID string, dashboard *Dashboard) error {
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("redis_dashboard_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, dashboardKey(educatorID), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_dashboard_set_failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard after the educator's courses change.
func (cache *RedisDashboardCache) Invalidate(context context.Context, educatorID string) error {
	if err := cache.client.Del(context, dashboardKey(educatorID)).Err(); err != nil {
		return fmt.Errorf("redis_dashboard_delete_failed: %w", err)
	}
	return nil
}
