// Package history persists per-user dialogue transcripts in Redis so they
// outlive the in-memory session and can be served to the frontend.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cineride/models"

	"github.com/go-redis/redis/v8"
)

const transcriptPrefix = "chat:history:"

// maxStoredTurns bounds the transcript length per user.
const maxStoredTurns = 200

// Service stores transcripts as a Redis list with a TTL refreshed on write.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

// Append pushes the given turns onto the user's transcript.
func (s *Service) Append(ctx context.Context, userID string, turns ...models.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	key := transcriptPrefix + userID

	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		values = append(values, b)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -maxStoredTurns, -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist transcript: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent turns, oldest first.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]models.Turn, error) {
	if limit <= 0 || limit > maxStoredTurns {
		limit = maxStoredTurns
	}
	key := transcriptPrefix + userID

	raw, err := s.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	turns := make([]models.Turn, 0, len(raw))
	for _, entry := range raw {
		var t models.Turn
		if err := json.Unmarshal([]byte(entry), &t); err != nil {
			return nil, fmt.Errorf("decode transcript entry: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Clear drops the user's stored transcript.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, transcriptPrefix+userID).Err()
}
