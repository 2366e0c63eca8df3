package gateway

import (
	"sync"
)

// SequenceMap holds the per-destination message nonce so concurrent
// sends never derive the same message id.
type SequenceMap struct {
	mu sync.Mutex
	// map destination selector -> next nonce
	sequenceMap map[uint64]uint64
}

func NewSequenceMap() *SequenceMap {
	return &SequenceMap{
		sequenceMap: map[uint64]uint64{},
	}
}

func (m *SequenceMap) Put(destSelector, val uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequenceMap[destSelector] = val
}

func (m *SequenceMap) Next(destSelector uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := m.sequenceMap[destSelector]
	m.sequenceMap[destSelector]++
	return result
}
