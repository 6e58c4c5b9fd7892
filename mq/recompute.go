// Package mq carries fire-and-forget score-recompute requests to the
// external matching engine over redis pub/sub.
package mq

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const recomputeChannel = "score-recompute"

// PairRecompute asks the scoring engine to refresh one actor pair.
type PairRecompute struct {
	ActorA string `json:"actor_a"`
	ActorB string `json:"actor_b"`
}

// RedisQueue publishes recompute requests. Failures are the caller's to
// log and swallow; a dropped recompute only delays a score refresh.
type RedisQueue struct {
	Conn *redis.Client
}

func NewRedisQueue(conn *redis.Client) *RedisQueue {
	return &RedisQueue{Conn: conn}
}

func (q *RedisQueue) EnqueuePairRecompute(ctx context.Context, actorA, actorB string) error {
	data, err := json.Marshal(PairRecompute{ActorA: actorA, ActorB: actorB})
	if err != nil {
		return err
	}
	return q.Conn.Publish(ctx, recomputeChannel, data).Err()
}

// NopQueue discards recompute requests; used when redis is not
// configured and in tests.
type NopQueue struct{}

func (NopQueue) EnqueuePairRecompute(context.Context, string, string) error { return nil }
