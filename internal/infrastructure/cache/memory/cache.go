package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is an in-process response cache with absolute TTL expiry.
// Entries are stored as their JSON encoding so a cached response is
// exactly what the serialized API response would have been.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Key normalizes the query text so that casing and surrounding
// whitespace collide on one cache slot.
func (c *Cache) Key(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Get(_ context.Context, key string) (*domain.QueryResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	var response domain.QueryResponse
	if err := json.Unmarshal(e.payload, &response); err != nil {
		// Undecodable entries are treated as absent, not served broken.
		delete(c.entries, key)
		slog.Warn("cache_entry_corrupted", "key", key, "error", err)
		return nil, false
	}
	response.CacheHit = true
	return &response, true
}

func (c *Cache) Put(_ context.Context, key string, response *domain.QueryResponse) {
	payload, err := json.Marshal(response)
	if err != nil {
		slog.Warn("cache_encode_failed", "key", key, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked()
	c.entries[key] = entry{
		payload:   payload,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports live entries, counting those not yet purged lazily.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) purgeExpiredLocked() {
	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
