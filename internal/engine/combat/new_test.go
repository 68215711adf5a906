package combat_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type NewStateTestSuite struct {
	suite.Suite
}

func TestNewStateSuite(t *testing.T) {
	suite.Run(t, new(NewStateTestSuite))
}

func (s *NewStateTestSuite) TestHeroStatsByClass() {
	testCases := []struct {
		class dungeon.HeroClass
		hp    int
		mana  int
	}{
		{dungeon.ClassWarrior, 150, 0},
		{dungeon.ClassMage, 80, 5},
		{dungeon.ClassRogue, 100, 0},
	}

	for _, tc := range testCases {
		s.Run(string(tc.class), func() {
			st, err := combat.NewState(rng.NewSequence(1), &combat.NewStateInput{
				Namespace:  "default",
				Name:       "crypt",
				Difficulty: dungeon.DifficultyNormal,
				HeroClass:  tc.class,
			})
			s.Require().NoError(err)
			s.Equal(tc.hp, st.HeroHP)
			s.Equal(tc.hp, st.MaxHeroHP)
			s.Equal(tc.mana, st.HeroMana)
			s.Equal(dungeon.ModifierNone, st.Modifier)
			s.Len(st.Monsters, combat.DefaultMonsters)
			s.Equal(50, st.Monsters[0].HP)
			s.True(st.Monsters[0].Alive)
			s.Equal(400, st.Boss.HP)
			s.Equal(dungeon.BossPending, st.Boss.State)
			s.Empty(st.Inventory)
			s.Zero(st.TurnRound)
		})
	}
}

func (s *NewStateTestSuite) TestModifierRoll() {
	testCases := []struct {
		name  string
		draws []int
		want  dungeon.Modifier
	}{
		{"no modifier at twenty", []int{20}, dungeon.ModifierNone},
		{"first of six", []int{21, 1}, dungeon.ModifierCurseFortitude},
		{"last of six", []int{100, 6}, dungeon.ModifierBlessingFortune},
		{"strength", []int{55, 4}, dungeon.ModifierBlessingStrength},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := combat.RollModifier(rng.NewSequence(tc.draws...))
			s.Require().NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *NewStateTestSuite) TestFortitudeScalesEnemyHP() {
	st, err := combat.NewState(rng.NewSequence(21, 1), &combat.NewStateInput{
		Namespace:  "default",
		Name:       "crypt",
		Difficulty: dungeon.DifficultyEasy,
		HeroClass:  dungeon.ClassWarrior,
		Monsters:   2,
	})
	s.Require().NoError(err)
	s.Equal(dungeon.ModifierCurseFortitude, st.Modifier)
	s.Equal(45, st.Monsters[1].MaxHP)
	s.Equal(300, st.Boss.MaxHP)
}

func (s *NewStateTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		input *combat.NewStateInput
	}{
		{"nil input", nil},
		{"missing name", &combat.NewStateInput{Namespace: "default", Difficulty: dungeon.DifficultyEasy, HeroClass: dungeon.ClassMage}},
		{"name with colon", &combat.NewStateInput{Namespace: "default", Name: "b:c", Difficulty: dungeon.DifficultyEasy, HeroClass: dungeon.ClassMage}},
		{"namespace with colon", &combat.NewStateInput{Namespace: "a:b", Name: "c", Difficulty: dungeon.DifficultyEasy, HeroClass: dungeon.ClassMage}},
		{"uppercase name", &combat.NewStateInput{Namespace: "default", Name: "Crypt", Difficulty: dungeon.DifficultyEasy, HeroClass: dungeon.ClassMage}},
		{"bad difficulty", &combat.NewStateInput{Namespace: "default", Name: "x", Difficulty: "nightmare", HeroClass: dungeon.ClassMage}},
		{"bad class", &combat.NewStateInput{Namespace: "default", Name: "x", Difficulty: dungeon.DifficultyEasy, HeroClass: "bard"}},
		{"too many monsters", &combat.NewStateInput{Namespace: "default", Name: "x", Difficulty: dungeon.DifficultyEasy, HeroClass: dungeon.ClassMage, Monsters: 11}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := combat.NewState(rng.NewSequence(1), tc.input)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *NewStateTestSuite) TestRulesValidate() {
	s.NoError(combat.DefaultRules().Validate())

	rules := combat.DefaultRules()
	rules.WeaponUses[dungeon.RarityRare] = 0
	s.Error(rules.Validate())

	s.Error(combat.Rules{}.Validate())
}
