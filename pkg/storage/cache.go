package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wellmate-ai/wellmate/pkg/common/logger"
	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

// CachedStore layers a Redis read-through cache for the latest record per
// user over an inner store. Cache failures degrade to the inner store and are
// logged, never surfaced. Out-of-order inserts never shadow a newer cached
// latest entry.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

func latestKey(userID string) string {
	return fmt.Sprintf("result:latest:%s", userID)
}

func (c *CachedStore) Insert(ctx context.Context, record *models.ResultRecord) error {
	if err := c.inner.Insert(ctx, record); err != nil {
		return err
	}
	// Write-through, unless a newer record is already cached as latest.
	if cached, err := c.client.Get(ctx, latestKey(record.UserID)).Bytes(); err == nil {
		if !supersedesCached(cached, record.Timestamp) {
			return nil
		}
	}
	payload, err := json.Marshal(record)
	if err == nil {
		if err := c.client.Set(ctx, latestKey(record.UserID), payload, c.ttl).Err(); err != nil {
			logger.Log.WithError(err).WithField("user_id", record.UserID).Warn("latest-result cache write failed")
		}
	}
	return nil
}

// supersedesCached reports whether a record with the given timestamp should
// replace the cached latest entry. Equal timestamps favor the newer insert;
// an unreadable cached payload is always replaced.
func supersedesCached(cached []byte, timestamp int64) bool {
	var prev models.ResultRecord
	if err := json.Unmarshal(cached, &prev); err != nil {
		return true
	}
	return timestamp >= prev.Timestamp
}

func (c *CachedStore) LatestFor(ctx context.Context, userID string) (*models.ResultRecord, error) {
	data, err := c.client.Get(ctx, latestKey(userID)).Bytes()
	if err == nil {
		var record models.ResultRecord
		if err := json.Unmarshal(data, &record); err == nil {
			return &record, nil
		}
	} else if err != redis.Nil {
		logger.Log.WithError(err).WithField("user_id", userID).Debug("latest-result cache read failed")
	}

	record, err := c.inner.LatestFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payload, merr := json.Marshal(record); merr == nil {
		_ = c.client.Set(ctx, latestKey(userID), payload, c.ttl).Err()
	}
	return record, nil
}

func (c *CachedStore) RecentFor(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error) {
	return c.inner.RecentFor(ctx, userID, limit)
}
