package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
)

// setIfCurrent stores the board only while the generation it was computed
// under is still the latest one.
var setIfCurrent = redislib.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then current = "0" end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type leaderboardCache struct {
	client *redislib.Client
	key    string
	genKey string
	ttl    time.Duration
}

type cachedLeaderboard struct {
	Day        domain.Day                `json:"day"`
	Generation int64                     `json:"generation"`
	Entries    []domain.LeaderboardEntry `json:"entries"`
}

// NewLeaderboardCache stores the latest leaderboard under a single key next to
// a generation counter bumped by every invalidation.
func NewLeaderboardCache(client *redislib.Client, ttl time.Duration) repository.LeaderboardCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &leaderboardCache{
		client: client,
		key:    "leaderboard:current",
		genKey: "leaderboard:gen",
		ttl:    ttl,
	}
}

func (c *leaderboardCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redislib.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *leaderboardCache) Get(ctx context.Context, day domain.Day) ([]domain.LeaderboardEntry, bool, error) {
	values, err := c.client.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		return nil, false, err
	}
	raw, ok := values[0].(string)
	if !ok {
		return nil, false, nil
	}

	var gen int64
	if s, ok := values[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, false, err
		}
	}

	var cached cachedLeaderboard
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false, err
	}
	if cached.Generation != gen {
		return nil, false, nil
	}
	// A board computed before midnight has stale streak windows.
	if cached.Day != day {
		return nil, false, nil
	}
	return cached.Entries, true, nil
}

func (c *leaderboardCache) Set(ctx context.Context, day domain.Day, generation int64, entries []domain.LeaderboardEntry) error {
	payload, err := json.Marshal(cachedLeaderboard{Day: day, Generation: generation, Entries: entries})
	if err != nil {
		return err
	}
	return setIfCurrent.Run(ctx, c.client,
		[]string{c.key, c.genKey},
		strconv.FormatInt(generation, 10), payload, c.ttl.Milliseconds(),
	).Err()
}

func (c *leaderboardCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}
