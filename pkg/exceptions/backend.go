package exceptions

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the Redis set that holds shared exceptions.
const DefaultRedisKey = "wordcheck:exceptions"

// Backend is durable storage for an exception list.
type Backend interface {
	Members(ctx context.Context) ([]string, error)
	Add(ctx context.Context, words ...string) error
	Remove(ctx context.Context, words ...string) error
}

// RedisBackend stores exceptions in one Redis set.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend wraps an existing client. An empty key means DefaultRedisKey.
func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

// DialRedis connects to addr and checks the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int, key string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
		MaxRetries:  1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	log.Debugf("Connected to redis at %s (db %d)", addr, db)
	return NewRedisBackend(client, key), nil
}

func (b *RedisBackend) Members(ctx context.Context) ([]string, error) {
	return b.client.SMembers(ctx, b.key).Result()
}

func (b *RedisBackend) Add(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	return b.client.SAdd(ctx, b.key, toArgs(words)...).Err()
}

func (b *RedisBackend) Remove(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	return b.client.SRem(ctx, b.key, toArgs(words)...).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func toArgs(words []string) []any {
	args := make([]any, len(words))
	for i, w := range words {
		args[i] = w
	}
	return args
}

// Persistent is a Set whose changes are written through to a Backend.
// Reads never touch the backend; call Sync to pick up changes made elsewhere.
type Persistent struct {
	*Set
	backend Backend
}

// NewPersistent creates a Persistent loaded from backend.
func NewPersistent(ctx context.Context, backend Backend) (*Persistent, error) {
	p := &Persistent{Set: New(), backend: backend}
	if err := p.Sync(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Add stores words in the backend, then in memory.
func (p *Persistent) Add(ctx context.Context, words ...string) error {
	if err := p.backend.Add(ctx, words...); err != nil {
		return fmt.Errorf("persist exceptions: %w", err)
	}
	p.Set.Add(words...)
	return nil
}

// Remove deletes words from the backend, then from memory.
func (p *Persistent) Remove(ctx context.Context, words ...string) error {
	if err := p.backend.Remove(ctx, words...); err != nil {
		return fmt.Errorf("remove exceptions: %w", err)
	}
	p.Set.Remove(words...)
	return nil
}

// Sync replaces the in-memory contents with the backend's.
func (p *Persistent) Sync(ctx context.Context) error {
	words, err := p.backend.Members(ctx)
	if err != nil {
		return fmt.Errorf("load exceptions: %w", err)
	}
	p.Set.Replace(words)
	log.Debugf("Synced %d exceptions", len(words))
	return nil
}

type memoryBackend struct{}

func (memoryBackend) Members(context.Context) ([]string, error) { return nil, nil }
func (memoryBackend) Add(context.Context, ...string) error      { return nil }
func (memoryBackend) Remove(context.Context, ...string) error   { return nil }

// Ephemeral returns a Persistent that keeps its words for the life of the process only.
func Ephemeral(words ...string) *Persistent {
	return &Persistent{Set: New(words...), backend: memoryBackend{}}
}
