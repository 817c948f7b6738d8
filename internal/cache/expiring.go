// internal/cache/expiring.go
package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Expiring is a TTL cache with string-ish keys. Expiration time is fixed at
// construction; Set always uses the configured TTL.
type Expiring[Key ~string, Value any] struct {
	name  string
	ttl   time.Duration
	cache *gocache.Cache
}

type Config struct {
	Name            string
	TTL             time.Duration
	CleanupInterval time.Duration
}

func (c Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("cache name is required")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache %s: TTL must be positive", c.Name)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("cache %s: cleanup interval must be positive", c.Name)
	}
	return nil
}

func NewExpiring[Key ~string, Value any](cfg Config) (*Expiring[Key, Value], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Expiring[Key, Value]{
		name:  cfg.Name,
		ttl:   cfg.TTL,
		cache: gocache.New(cfg.TTL, cfg.CleanupInterval),
	}, nil
}

func (c *Expiring[Key, Value]) Get(key Key) (Value, bool) {
	if v, ok := c.cache.Get(string(key)); ok {
		if value, ok := v.(Value); ok {
			return value, true
		}
		var expected Value
		panic(fmt.Sprintf("value of wrong type in cache %s - expected: %T, actual: %T", c.name, expected, v))
	}
	var empty Value
	return empty, false
}

func (c *Expiring[Key, Value]) Set(k Key, v Value) {
	c.cache.Set(string(k), v, c.ttl)
}

func (c *Expiring[Key, Value]) Delete(k Key) {
	c.cache.Delete(string(k))
}

func (c *Expiring[Key, Value]) Len() int {
	return c.cache.ItemCount()
}
