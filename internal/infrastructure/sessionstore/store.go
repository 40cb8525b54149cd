// Package sessionstore provides the gateway's replacement for the browser's
// localStorage: an in-process key-value store holding the wallet_id key.
package sessionstore

import (
	"time"

	"wallet_gateway/internal/app/port"

	"github.com/patrickmn/go-cache"
)

// Store implements port.KeyValueStore on top of go-cache. Entries never
// expire on their own; logout is the only removal path, matching the
// browser's localStorage semantics.
type Store struct {
	c *cache.Cache
}

// New creates an empty session store.
func New() *Store {
	return &Store{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

// Set stores a value under key.
func (s *Store) Set(key, value string) {
	s.c.Set(key, value, cache.NoExpiration)
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.c.Delete(key)
}

var _ port.KeyValueStore = (*Store)(nil)
