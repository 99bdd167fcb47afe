package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caseflow/helpdesk/internal/domain"
)

// ConversationRepository stores the per-user chatbot conversation state.
// Absent state is not an error: Get returns a fresh idle conversation.
type ConversationRepository interface {
	Get(ctx context.Context, userID string) (*domain.Conversation, error)
	Save(ctx context.Context, userID string, conv *domain.Conversation) error
	Clear(ctx context.Context, userID string) error
}

type redisConversationRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConversationRepository returns a Redis-backed implementation. State
// expires after ttl of inactivity so abandoned drafts clean themselves up.
func NewConversationRepository(client *redis.Client, ttl time.Duration) ConversationRepository {
	return &redisConversationRepository{client: client, ttl: ttl}
}

func conversationKey(userID string) string {
	return "chatbot:conversation:" + userID
}

func (r *redisConversationRepository) Get(ctx context.Context, userID string) (*domain.Conversation, error) {
	raw, err := r.client.Get(ctx, conversationKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewConversation(), nil
		}
		return nil, err
	}

	var conv domain.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		// Corrupt state; discard rather than wedge the conversation.
		return domain.NewConversation(), nil
	}
	return &conv, nil
}

func (r *redisConversationRepository) Save(ctx context.Context, userID string, conv *domain.Conversation) error {
	conv.UpdatedAt = time.Now()
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, conversationKey(userID), raw, r.ttl).Err()
}

func (r *redisConversationRepository) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, conversationKey(userID)).Err()
}
