package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DeadlyParkour777/problemset/problem_service/internal/types"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const problemListKey = "problems:all"

type ProblemCache interface {
	GetProblem(ctx context.Context, id string) (*types.Problem, error)
	SetProblem(ctx context.Context, problem *types.Problem) error
	GetProblemList(ctx context.Context) ([]*types.Problem, error)
	SetProblemList(ctx context.Context, problems []*types.Problem) error
	// Invalidate drops the cached list and, when problemID is set, that problem.
	Invalidate(ctx context.Context, problemID string) error
}

type redisProblemCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProblemCache(client *redis.Client, ttl time.Duration) ProblemCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisProblemCache{
		client: client,
		ttl:    ttl,
	}
}

func problemKey(id string) string {
	return "problem:" + id
}

func (c *redisProblemCache) GetProblem(ctx context.Context, id string) (*types.Problem, error) {
	var problem types.Problem
	if err := c.get(ctx, problemKey(id), &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (c *redisProblemCache) SetProblem(ctx context.Context, problem *types.Problem) error {
	return c.set(ctx, problemKey(problem.ID), problem)
}

func (c *redisProblemCache) GetProblemList(ctx context.Context) ([]*types.Problem, error) {
	var problems []*types.Problem
	if err := c.get(ctx, problemListKey, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

func (c *redisProblemCache) SetProblemList(ctx context.Context, problems []*types.Problem) error {
	return c.set(ctx, problemListKey, problems)
}

func (c *redisProblemCache) Invalidate(ctx context.Context, problemID string) error {
	keys := []string{problemListKey}
	if problemID != "" {
		keys = append(keys, problemKey(problemID))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

func (c *redisProblemCache) get(ctx context.Context, key string, v any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read %s from cache: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return nil
}

func (c *redisProblemCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to cache: %w", key, err)
	}
	return nil
}
