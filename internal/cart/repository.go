package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Repository keeps carts between requests, keyed by an opaque cart id held
// in the shopper's session cookie.
type Repository interface {
	// Load returns the cart for id, or an empty cart if there is none.
	Load(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, id string, c *Cart) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps carts in process memory. Carts do not survive a
// restart and are not shared between server instances.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string][]LineItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]LineItem)}
}

func (r *MemoryRepository) Load(_ context.Context, id string) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := New()
	for _, it := range r.carts[id] {
		c.Add(it)
	}
	return c, nil
}

func (r *MemoryRepository) Save(_ context.Context, id string, c *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.IsEmpty() {
		delete(r.carts, id)
		return nil
	}
	r.carts[id] = c.Items()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	return nil
}

const (
	DefaultRedisPrefix = "cart:"
	DefaultCartTTL     = 7 * 24 * time.Hour
)

// RedisRepository stores each cart as a JSON value with a sliding TTL, so
// several server instances can serve the same shopper.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisOption func(*RedisRepository)

// WithTTL sets how long an untouched cart is kept.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisRepository) {
		r.ttl = ttl
	}
}

// WithPrefix sets the Redis key prefix for cart entries.
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisRepository) {
		r.prefix = prefix
	}
}

func NewRedisRepository(client *redis.Client, opts ...RedisOption) *RedisRepository {
	r := &RedisRepository{
		client: client,
		ttl:    DefaultCartTTL,
		prefix: DefaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + id
}

func (r *RedisRepository) Load(ctx context.Context, id string) (*Cart, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c := New()
	if err := json.Unmarshal(val, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (r *RedisRepository) Save(ctx context.Context, id string, c *Cart) error {
	if c.IsEmpty() {
		return r.Delete(ctx, id)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Set(ctx, r.key(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
