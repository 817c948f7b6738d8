// internal/cache/expiring_test.go
package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiringSetGetDelete(t *testing.T) {
	c, err := NewExpiring[string, int](Config{Name: "test", TTL: time.Minute, CleanupInterval: time.Minute})
	assert.NoError(t, err)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 7)
	value, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 7, value)
	assert.Equal(t, 1, c.Len())

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestExpiringEntriesExpire(t *testing.T) {
	c, err := NewExpiring[string, string](Config{Name: "test", TTL: 20 * time.Millisecond, CleanupInterval: 10 * time.Millisecond})
	assert.NoError(t, err)

	c.Set("a", "value")
	_, ok := c.Get("a")
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestExpiringConfigValidation(t *testing.T) {
	_, err := NewExpiring[string, int](Config{TTL: time.Minute, CleanupInterval: time.Minute})
	assert.Error(t, err)

	_, err = NewExpiring[string, int](Config{Name: "test", CleanupInterval: time.Minute})
	assert.Error(t, err)

	_, err = NewExpiring[string, int](Config{Name: "test", TTL: time.Minute})
	assert.Error(t, err)
}
