package uploadcache

import "sync"

// Memory is a plain map-backed uploads.Store with no eviction. Suitable for
// tests and single-shot tooling; production wiring uses TTL.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (s *Memory) Put(id string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = data
}

func (s *Memory) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.m[id]
	return data, ok
}

func (s *Memory) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
