// File: services/assistant/memory.go
package assistant

import (
	"context"
	"encoding/json"
	"time"

	"jetset/models"

	"github.com/go-redis/redis/v8"
)

const chatMemoryPrefix = "chat:mem:"

// RedisMemory keeps the last window turns per user with an expiry, so a
// returning guest continues where they left off and stale chats age out.
type RedisMemory struct {
	client *redis.Client
	window int
	ttl    time.Duration
}

func NewRedisMemory(client *redis.Client, window int, ttl time.Duration) *RedisMemory {
	if window <= 0 {
		window = 20
	}
	return &RedisMemory{client: client, window: window, ttl: ttl}
}

func (m *RedisMemory) History(ctx context.Context, userID string) ([]models.Turn, error) {
	key := chatMemoryPrefix + userID
	items, err := m.client.LRange(ctx, key, 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	turns := make([]models.Turn, 0, len(items))
	for _, item := range items {
		var turn models.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue // skip unreadable entries rather than losing the whole window
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (m *RedisMemory) Append(ctx context.Context, userID string, turns ...models.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	key := chatMemoryPrefix + userID
	pipe := m.client.Pipeline()
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, b)
	}
	pipe.LTrim(ctx, key, int64(-m.window), -1)
	pipe.Expire(ctx, key, m.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (m *RedisMemory) Clear(ctx context.Context, userID string) error {
	key := chatMemoryPrefix + userID
	return m.client.Del(ctx, key).Err()
}
