package ratelimit

import (
	"context"
	"hash/maphash"
	"sync"
	"time"
)

const memoryShards = 32

type memoryEntry struct {
	start    time.Time
	count    int
	lastSeen time.Time
}

type memoryShard struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// MemoryStore keeps windows in process. Keys are spread over independently
// locked shards, so callers on different keys rarely contend while
// read-modify-write on one key is serialized.
type MemoryStore struct {
	seed   maphash.Seed
	shards [memoryShards]memoryShard
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{seed: maphash.MakeSeed()}
	for i := range s.shards {
		s.shards[i].entries = make(map[string]*memoryEntry)
	}
	return s
}

func (s *MemoryStore) shard(key string) *memoryShard {
	return &s.shards[maphash.String(s.seed, key)%memoryShards]
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, policy Policy) (Window, error) {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[key]
	if !ok || !now.Before(e.start.Add(policy.Window)) {
		e = &memoryEntry{start: now, count: 1}
		sh.entries[key] = e
	} else if e.count <= policy.Max {
		e.count++
	}
	e.lastSeen = now

	return Window{Start: e.start, Count: e.count}, nil
}

// Sweep implements Store.
func (s *MemoryStore) Sweep(_ context.Context, now time.Time, policy Policy) (int, error) {
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for key, e := range sh.entries {
			if now.Sub(e.lastSeen) > policy.Retention {
				delete(sh.entries, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed, nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}

// Peek returns the stored window for key without recording a hit.
func (s *MemoryStore) Peek(key string) (Window, bool) {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[key]
	if !ok {
		return Window{}, false
	}
	return Window{Start: e.start, Count: e.count}, true
}
