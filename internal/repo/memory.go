package repo

import (
	"context"
	"sync"
)

// MemorySlot keeps the slot in process memory. Used for tests and
// throwaway sessions.
type MemorySlot struct {
	mu    sync.Mutex
	data  []byte
	saved bool
	saves int
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// NewMemorySlotWith returns a slot pre-filled with data.
func NewMemorySlotWith(data []byte) *MemorySlot {
	return &MemorySlot{data: append([]byte(nil), data...), saved: true}
}

func (s *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return nil, ErrorNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data[:0], data...)
	s.saved = true
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemorySlot) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemorySlot) Close() error { return nil }
