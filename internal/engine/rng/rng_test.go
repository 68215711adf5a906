package rng_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
)

type RNGTestSuite struct {
	suite.Suite
}

func TestRNGSuite(t *testing.T) {
	suite.Run(t, new(RNGTestSuite))
}

func (s *RNGTestSuite) TestSequenceReplaysValues() {
	seq := rng.NewSequence(3, 20, 1)

	v, err := seq.Roll(20)
	s.Require().NoError(err)
	s.Equal(3, v)

	vals, err := seq.RollN(2, 20)
	s.Require().NoError(err)
	s.Equal([]int{20, 1}, vals)
	s.Equal(0, seq.Remaining())

	_, err = seq.Roll(6)
	s.Error(err, "exhausted sequence must fail")
}

func (s *RNGTestSuite) TestSequenceRejectsOutOfRange() {
	seq := rng.NewSequence(7)
	_, err := seq.Roll(6)
	s.Error(err)
	s.Equal(1, seq.Remaining(), "rejected draw is not consumed")
}

func (s *RNGTestSuite) TestChance() {
	testCases := []struct {
		name string
		draw int
		pct  int
		want bool
	}{
		{"at threshold", 20, 20, true},
		{"under threshold", 1, 20, true},
		{"over threshold", 21, 20, false},
		{"never", 1, 0, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := rng.Chance(rng.NewSequence(tc.draw), tc.pct)
			s.Require().NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *RNGTestSuite) TestPick() {
	idx, err := rng.Pick(rng.NewSequence(4), 4)
	s.Require().NoError(err)
	s.Equal(3, idx)
}

func (s *RNGTestSuite) TestSeededIsDeterministic() {
	a := rng.NewSeeded(42)
	b := rng.NewSeeded(42)

	va, err := a.RollN(16, 20)
	s.Require().NoError(err)
	vb, err := b.RollN(16, 20)
	s.Require().NoError(err)
	s.Equal(va, vb)
}

func (s *RNGTestSuite) TestSeededRejectsBadSize() {
	_, err := rng.NewSeeded(1).Roll(0)
	s.Error(err)
}

func TestSeededRollInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(t, "seed")
		size := rapid.IntRange(1, 100).Draw(t, "size")

		v, err := rng.NewSeeded(seed).Roll(size)
		if err != nil {
			t.Fatalf("roll: %v", err)
		}
		if v < 1 || v > size {
			t.Fatalf("roll %d outside [1,%d]", v, size)
		}
	})
}
