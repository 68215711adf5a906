package combat_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

type DiceTestSuite struct {
	suite.Suite
}

func TestDiceSuite(t *testing.T) {
	suite.Run(t, new(DiceTestSuite))
}

func (s *DiceTestSuite) TestFormulas() {
	testCases := []struct {
		difficulty dungeon.Difficulty
		base       string
		boss       string
	}{
		{dungeon.DifficultyEasy, "1d20+2", "2d22+4"},
		{dungeon.DifficultyNormal, "2d12+4", "3d14+6"},
		{dungeon.DifficultyHard, "3d20+5", "4d22+7"},
	}

	for _, tc := range testCases {
		s.Run(string(tc.difficulty), func() {
			table, ok := combat.TableFor(tc.difficulty)
			s.Require().True(ok)
			s.Equal(tc.base, table.Formula.String())
			s.Equal(tc.boss, table.Formula.Boss().String())
			s.Greater(table.Formula.Boss().Min(), table.Formula.Min())
			s.Greater(table.Formula.Boss().Max(), table.Formula.Max())
		})
	}
}

func (s *DiceTestSuite) TestRollSumsDiceAndModifier() {
	rolls, total, err := combat.Roll(rng.NewSequence(3, 12), dungeon.DifficultyNormal, false)
	s.Require().NoError(err)
	s.Equal([]int{3, 12}, rolls)
	s.Equal(19, total)

	rolls, total, err = combat.Roll(rng.NewSequence(1, 1, 1, 1), dungeon.DifficultyHard, true)
	s.Require().NoError(err)
	s.Len(rolls, 4)
	s.Equal(11, total)
}

func (s *DiceTestSuite) TestRollUnknownDifficulty() {
	_, _, err := combat.Roll(rng.NewSequence(1), dungeon.Difficulty("nightmare"), false)
	s.Error(err)
}

func TestRollTotalsStayInRange(t *testing.T) {
	bounds := map[dungeon.Difficulty][2]int{
		dungeon.DifficultyEasy:   {3, 22},
		dungeon.DifficultyNormal: {6, 28},
		dungeon.DifficultyHard:   {8, 65},
	}

	rapid.Check(t, func(t *rapid.T) {
		d := rapid.SampledFrom(dungeon.Difficulties).Draw(t, "difficulty")
		seed := rapid.Int64Range(1, 1<<50).Draw(t, "seed")

		_, total, err := combat.Roll(rng.NewSeeded(seed), d, false)
		if err != nil {
			t.Fatalf("roll: %v", err)
		}
		b := bounds[d]
		if total < b[0] || total > b[1] {
			t.Fatalf("%s total %d outside [%d,%d]", d, total, b[0], b[1])
		}

		table, _ := combat.TableFor(d)
		_, bossTotal, err := combat.Roll(rng.NewSeeded(seed), d, true)
		if err != nil {
			t.Fatalf("boss roll: %v", err)
		}
		if bossTotal < table.Formula.Boss().Min() || bossTotal > table.Formula.Boss().Max() {
			t.Fatalf("%s boss total %d outside formula", d, bossTotal)
		}
	})
}
