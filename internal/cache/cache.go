// Package cache provides disk-backed keyed caches on top of the swappable filesystem.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/filesystem"
)

// entries is the on-disk layout of a cache file.
type entries[K comparable, T any] struct {
	Records map[K]T `json:"records"`
}

// Cache is a thread-safe map persisted as a single JSON file.
// The whole file expires at once after its lifetime.
type Cache[K comparable, T any] struct {
	internal   *gache.Cache[*entries[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

// New returns a cache stored at path. A zero lifetime never expires.
func New[K comparable, T any](path string, lifetime time.Duration, keyWrapper func(K) K) *Cache[K, T] {
	if keyWrapper == nil {
		keyWrapper = func(k K) K { return k }
	}

	return &Cache[K, T]{
		internal: gache.New[*entries[K, T]](
			&gache.Options{
				Path:       path,
				Lifetime:   lifetime,
				FileSystem: &filesystem.GacheFs{},
			},
		),
		keyWrapper: keyWrapper,
	}
}

// Get retrieves the value stored under key.
func (c *Cache[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if value, ok := data.Records[c.keyWrapper(key)]; ok {
		return mo.Some(value)
	}

	return mo.None[T]()
}

// Set stores value under key.
func (c *Cache[K, T]) Set(key K, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Records == nil {
		data = &entries[K, T]{Records: make(map[K]T)}
	}

	data.Records[c.keyWrapper(key)] = value
	return c.internal.Set(data)
}

// Delete removes key.
func (c *Cache[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		return nil
	}

	delete(data.Records, c.keyWrapper(key))
	return c.internal.Set(data)
}

// GenerateKey derives a stable identifier from a free-form text and a namespace.
// Case and whitespace in text are ignored.
func GenerateKey(text, namespace string) string {
	sanitized := strings.ToLower(strings.Join(strings.Fields(text), "")) + "\x00" + namespace
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}
