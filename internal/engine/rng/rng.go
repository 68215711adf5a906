// Package rng provides the random sources used by the combat engine.
//
// Every source satisfies the rpg-toolkit dice.Roller interface, so the engine
// can run on dice.DefaultRoller in production, on a seeded roller for
// replays, or on a fixed Sequence in tests.
package rng

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// New returns a seeded roller when seed is non-zero and the toolkit's
// crypto-backed default roller otherwise.
func New(seed int64) dice.Roller {
	if seed == 0 {
		return dice.DefaultRoller
	}
	return NewSeeded(seed)
}

// Seeded is a deterministic roller. The same seed yields the same draws.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a deterministic roller
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))} // #nosec G404 -- replayable game dice
}

// Roll returns a value in [1, size]
func (s *Seeded) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(size) + 1, nil
}

// RollN returns count values in [1, size]
func (s *Seeded) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid dice count: %d", count)
	}
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

// Chance draws a d100 and reports whether it landed at or under pct
func Chance(r dice.Roller, pct int) (bool, error) {
	v, err := r.Roll(100)
	if err != nil {
		return false, err
	}
	return v <= pct, nil
}

// Pick draws a uniform index in [0, n)
func Pick(r dice.Roller, n int) (int, error) {
	v, err := r.Roll(n)
	if err != nil {
		return 0, err
	}
	return v - 1, nil
}
