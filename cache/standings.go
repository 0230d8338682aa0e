package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/redis/go-redis/v9"
)

// StandingsCache stores computed group tables. A miss is not an error.
//
// Tables are versioned per group: Get reports the group's current generation,
// Set stores a table under the generation it was computed for and Invalidate
// moves the group to a new generation. A table computed from a match log read
// before an invalidation is therefore never served after it.
type StandingsCache interface {
	Get(ctx context.Context, groupID int) (standings []models.TeamStats, generation int64, ok bool, err error)
	Set(ctx context.Context, groupID int, generation int64, standings []models.TeamStats) error
	Invalidate(ctx context.Context, groupIDs ...int) error
}

// NewRedisClient connects to a single Redis node and verifies it answers.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("no Redis address provided")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

type RedisStandingsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStandingsCache(client redis.Cmdable, ttl time.Duration) *RedisStandingsCache {
	return &RedisStandingsCache{client: client, ttl: ttl}
}

func generationKey(groupID int) string {
	return fmt.Sprintf("standings:{group:%d}:gen", groupID)
}

func standingsKey(groupID int, generation int64) string {
	return fmt.Sprintf("standings:{group:%d}:%d", groupID, generation)
}

func (c *RedisStandingsCache) Get(ctx context.Context, groupID int) ([]models.TeamStats, int64, bool, error) {
	generation, err := c.client.Get(ctx, generationKey(groupID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("failed to read standings generation of group %d: %w", groupID, err)
	}

	raw, err := c.client.Get(ctx, standingsKey(groupID, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, generation, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read standings of group %d: %w", groupID, err)
	}
	var standings []models.TeamStats
	if err := json.Unmarshal(raw, &standings); err != nil {
		return nil, 0, false, fmt.Errorf("failed to decode cached standings of group %d: %w", groupID, err)
	}
	return standings, generation, true, nil
}

// Set stores the table under the given generation. If the group was invalidated
// meanwhile the entry lands under a stale key that is never read and expires.
func (c *RedisStandingsCache) Set(ctx context.Context, groupID int, generation int64, standings []models.TeamStats) error {
	raw, err := json.Marshal(standings)
	if err != nil {
		return fmt.Errorf("failed to encode standings of group %d: %w", groupID, err)
	}
	if err := c.client.Set(ctx, standingsKey(groupID, generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache standings of group %d: %w", groupID, err)
	}
	return nil
}

func (c *RedisStandingsCache) Invalidate(ctx context.Context, groupIDs ...int) error {
	if len(groupIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range groupIDs {
			pipe.Incr(ctx, generationKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate standings: %w", err)
	}
	return nil
}

// NoopStandingsCache is used when Redis is not configured; every lookup misses.
type NoopStandingsCache struct{}

func (NoopStandingsCache) Get(context.Context, int) ([]models.TeamStats, int64, bool, error) {
	return nil, 0, false, nil
}

func (NoopStandingsCache) Set(context.Context, int, int64, []models.TeamStats) error { return nil }

func (NoopStandingsCache) Invalidate(context.Context, ...int) error { return nil }
