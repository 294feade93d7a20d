// Package queue hands accepted chat messages to the response pipeline over a Redis stream.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

// ChatStream appends messages to a capped Redis stream consumed by the pipeline workers
type ChatStream struct {
	redis  *redis.Client
	stream string
	maxLen int64
}

func NewChatStream(redisClient *redis.Client, stream string, maxLen int64) *ChatStream {
	return &ChatStream{
		redis:  redisClient,
		stream: stream,
		maxLen: maxLen,
	}
}

// Dispatch returns the stream entry id of the appended message
func (s *ChatStream) Dispatch(ctx context.Context, msg *domain.ChatMessage) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat message: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"chatbot_id": msg.ChatbotID.String(),
			"session_id": msg.SessionID.String(),
			"payload":    string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	id, err := s.redis.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue chat message: %w", err)
	}

	return id, nil
}
