package search

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// VisitedSet records the signatures of expanded states.
type VisitedSet interface {
	// Insert adds sig and reports whether it was absent.
	Insert(sig string) bool
	Contains(sig string) bool
	Len() int
}

type mapSet map[string]struct{}

// NewMapSet returns a VisitedSet for single goroutine use.
func NewMapSet() VisitedSet {
	return mapSet{}
}

func (m mapSet) Insert(sig string) bool {
	if _, ok := m[sig]; ok {
		return false
	}
	m[sig] = struct{}{}
	return true
}

func (m mapSet) Contains(sig string) bool {
	_, ok := m[sig]
	return ok
}

func (m mapSet) Len() int {
	return len(m)
}

// ShardedSet is a VisitedSet safe for concurrent use. Signatures are spread
// over independently locked shards by their xxhash.
type ShardedSet struct {
	shards []shard
	mask   uint64
}

type shard struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// NewShardedSet creates a set with at least n shards, rounded up to a power of two.
func NewShardedSet(n int) *ShardedSet {
	size := 1
	for size < n {
		size <<= 1
	}
	s := &ShardedSet{shards: make([]shard, size), mask: uint64(size - 1)}
	for i := range s.shards {
		s.shards[i].set = make(map[string]struct{})
	}
	return s
}

func (s *ShardedSet) shard(sig string) *shard {
	return &s.shards[xxhash.Sum64String(sig)&s.mask]
}

func (s *ShardedSet) Insert(sig string) bool {
	sh := s.shard(sig)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.set[sig]; ok {
		return false
	}
	sh.set[sig] = struct{}{}
	return true
}

func (s *ShardedSet) Contains(sig string) bool {
	sh := s.shard(sig)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.set[sig]
	return ok
}

func (s *ShardedSet) Len() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += len(s.shards[i].set)
		s.shards[i].mu.RUnlock()
	}
	return n
}
