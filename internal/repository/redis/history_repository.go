package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/repository/contract"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "chat_history:"

// HistoryRepository stores each transcript as a redis list of JSON messages.
type HistoryRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

var _ contract.HistoryRepository = &HistoryRepository{}

func NewHistoryRepository(client goredis.UniversalClient, ttl time.Duration) *HistoryRepository {
	return &HistoryRepository{client: client, ttl: ttl}
}

func Key(sessionId uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, sessionId)
}

func (r *HistoryRepository) Append(ctx context.Context, sessionId uint, message entity.HistoryMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal history message: %w", err)
	}

	key := Key(sessionId)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history %s: %w", key, err)
	}
	return nil
}

func (r *HistoryRepository) List(ctx context.Context, sessionId uint) ([]entity.HistoryMessage, error) {
	key := Key(sessionId)
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", key, err)
	}

	messages := make([]entity.HistoryMessage, 0, len(raw))
	for _, item := range raw {
		var msg entity.HistoryMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode history %s: %w", key, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// NewClient parses a redis:// URL.
func NewClient(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return goredis.NewClient(opts), nil
}
