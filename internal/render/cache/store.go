// Package cache stores composited map and layer buffers. Entries are only
// removed by explicit clear calls; the store never evicts on its own.
package cache

import (
	"fmt"
	"image"
	"regexp"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Stats counts lookups served by a Store.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Store maps keys to composited images. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]image.Image
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]image.Image)}
}

// TryGet returns the image cached under key.
func (s *Store) TryGet(key Key) (image.Image, bool) {
	s.mu.RLock()
	img, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return img, ok
}

// Contains reports whether key is cached without touching the stats.
func (s *Store) Contains(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Add stores img under key, replacing any previous value.
func (s *Store) Add(key Key, img image.Image) {
	if img == nil {
		return
	}
	s.mu.Lock()
	s.entries[key] = img
	s.mu.Unlock()
}

// GetOrCreate returns the image cached under key, building and storing it
// with build on a miss. Concurrent callers missing on the same key share a
// single build.
func (s *Store) GetOrCreate(key Key, build func() image.Image) image.Image {
	if img, ok := s.TryGet(key); ok {
		return img
	}

	v, _, _ := s.group.Do(key.id(), func() (interface{}, error) {
		s.mu.RLock()
		img, ok := s.entries[key]
		s.mu.RUnlock()
		if ok {
			return img, nil
		}

		img = build()
		s.Add(key, img)
		return img, nil
	})

	img, _ := v.(image.Image)
	return img
}

// Remove deletes the entry under key.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[Key]image.Image)
	s.mu.Unlock()
}

// ClearFunc removes every entry whose key satisfies match and returns the
// number of removed entries.
func (s *Store) ClearFunc(match func(Key) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.entries {
		if match(k) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// ClearPattern removes every entry whose formatted key fully matches the
// regular expression pattern, e.g. "map_testmap.*".
func (s *Store) ClearPattern(pattern string) (int, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return 0, fmt.Errorf("invalid cache key pattern %q: %w", pattern, err)
	}
	return s.ClearFunc(func(k Key) bool {
		return re.MatchString(k.String())
	}), nil
}

// ClearMap removes the whole-map and per-layer entries of one map.
func (s *Store) ClearMap(mapName string) int {
	return s.ClearFunc(func(k Key) bool {
		return k.Map == mapName
	})
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the cached keys in no particular order.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns the lookup counters.
func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}
