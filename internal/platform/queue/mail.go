package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"evreg/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MailJob is the payload pushed onto the activation-mail queue.
type MailJob struct {
	ID            string `json:"id"`
	Recipient     string `json:"recipient"`
	ActivationKey string `json:"activation_key"`
}

// RedisMailQueue dispatches activation mails through a Redis list so a slow
// or failing mail transport never blocks the registration commit.
type RedisMailQueue struct {
	rdb *redis.Client
}

func NewRedisMailQueue(rdb *redis.Client) *RedisMailQueue {
	return &RedisMailQueue{rdb: rdb}
}

func (q *RedisMailQueue) EnqueueActivationMail(ctx context.Context, recipient, activationKey string) error {
	job := MailJob{
		ID:            uuid.NewString(),
		Recipient:     recipient,
		ActivationKey: activationKey,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}
	if err := q.rdb.LPush(ctx, config.AppConfig.MailQueueName, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue mail job: %w", err)
	}
	return nil
}
