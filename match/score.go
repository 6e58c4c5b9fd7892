// Package match reads the scores the external scoring engine computes;
// nothing in this service ever writes one.
package match

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Provider is the match-score collaborator contract. Lookups are
// pair-order-independent; a missing score reads as 0.
type Provider interface {
	Score(ctx context.Context, actorA, actorB string) (float64, error)
}

// RedisScores reads scores from the hash the scoring engine maintains.
type RedisScores struct {
	Conn *redis.Client
	Key  string
}

func NewRedisScores(conn *redis.Client) *RedisScores {
	return &RedisScores{Conn: conn, Key: "match:scores"}
}

// PairKey orders the two ids lexicographically so both directions hit
// the same field.
func PairKey(actorA, actorB string) string {
	if actorB < actorA {
		actorA, actorB = actorB, actorA
	}
	return actorA + ":" + actorB
}

func (s *RedisScores) Score(ctx context.Context, actorA, actorB string) (float64, error) {
	val, err := s.Conn.HGet(ctx, s.Key, PairKey(actorA, actorB)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, nil
	}
	return score, nil
}

// StaticScores is a fixed score table, used in tests and local runs.
type StaticScores map[string]float64

func (s StaticScores) Score(_ context.Context, actorA, actorB string) (float64, error) {
	return s[PairKey(actorA, actorB)], nil
}
