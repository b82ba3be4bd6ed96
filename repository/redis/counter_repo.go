package redis

import (
	"context"
	"fmt"
	"strconv"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/habits/repository"
)

type counterReader struct {
	client *redislib.Client
	prefix string
}

// NewCounterReader reads integer counters maintained by other services under prefix+name.
func NewCounterReader(client *redislib.Client, prefix string) repository.CounterReader {
	if prefix == "" {
		prefix = "counters:"
	}
	return &counterReader{client: client, prefix: prefix}
}

func (r *counterReader) Read(ctx context.Context, names ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = r.key(name)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		out[name] = 0
		raw, ok := values[i].(string)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", name, err)
		}
		out[name] = parsed
	}
	return out, nil
}

func (r *counterReader) key(name string) string {
	return fmt.Sprintf("%s%s", r.prefix, name)
}
