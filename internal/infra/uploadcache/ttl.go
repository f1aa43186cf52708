package uploadcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 256
)

// TTL is an uploads.Store that evicts entries after a fixed lifetime and
// bounds the number of pending uploads held in memory.
type TTL struct {
	cache *expirable.LRU[string, []byte]
}

func NewTTL(maxEntries int, ttl time.Duration) *TTL {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL{cache: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

func (s *TTL) Put(id string, data []byte) {
	s.cache.Add(id, data)
}

func (s *TTL) Get(id string) ([]byte, bool) {
	return s.cache.Get(id)
}

func (s *TTL) Delete(id string) {
	s.cache.Remove(id)
}
