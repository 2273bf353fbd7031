package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisHashKey = "canopy:projects"
	redisChannel = "canopy:projects:changed"
)

// RedisStore keeps every project as one field of a single hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

func dialRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	client, err := dialRedis(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisStoreWithClient(client), nil
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: redisHashKey}
}

func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) List(ctx context.Context) ([]Project, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	list := make([]Project, 0, len(all))
	for id, raw := range all {
		var p Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Printf("projects: skipping redis field %s: %v", id, err)
			continue
		}
		p.ID = id
		list = append(list, p)
	}
	sortNewest(list)
	return list, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Project, error) {
	raw, err := s.client.HGet(ctx, s.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return Project{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Project{}, fmt.Errorf("get %s: %w", id, err)
	}
	var p Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Project{}, fmt.Errorf("decode %s: %w", id, err)
	}
	p.ID = id
	return p, nil
}

func (s *RedisStore) Put(ctx context.Context, p Project) (Project, error) {
	if err := validID(p.ID); err != nil {
		return Project{}, err
	}
	var existing *Project
	old, err := s.Get(ctx, p.ID)
	switch {
	case err == nil:
		existing = &old
	case !errors.Is(err, ErrNotFound):
		return Project{}, err
	}

	out := merge(existing, p)
	data, err := json.Marshal(out)
	if err != nil {
		return Project{}, err
	}
	if err := s.client.HSet(ctx, s.key, p.ID, data).Err(); err != nil {
		return Project{}, fmt.Errorf("put %s: %w", p.ID, err)
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
