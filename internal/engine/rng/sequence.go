package rng

import (
	"fmt"
	"sync"
)

// Sequence replays a fixed list of draws. Each Roll consumes one value,
// regardless of the die size, and fails once the list runs out or a value
// does not fit the requested die.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence creates a roller that returns values in order
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Roll returns the next value
func (s *Sequence) Roll(size int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.values) {
		return 0, fmt.Errorf("sequence exhausted after %d draws", len(s.values))
	}
	v := s.values[s.next]
	if v < 1 || v > size {
		return 0, fmt.Errorf("draw %d: value %d does not fit d%d", s.next, v, size)
	}
	s.next++
	return v, nil
}

// RollN returns the next count values
func (s *Sequence) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Remaining reports how many draws are left
func (s *Sequence) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}
