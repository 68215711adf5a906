package dungeon_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

type DungeonTestSuite struct {
	suite.Suite
}

func TestDungeonSuite(t *testing.T) {
	suite.Run(t, new(DungeonTestSuite))
}

func (s *DungeonTestSuite) TestCloneIsDeep() {
	orig := &dungeon.State{
		Monsters:        []dungeon.Monster{{HP: 10, MaxHP: 30, Alive: true}},
		Inventory:       []dungeon.ItemID{"weapon-rare"},
		LastHeroAction:  &dungeon.HeroEvent{Kind: dungeon.HeroAttack, Dice: []int{4}},
		LastEnemyAction: []dungeon.EnemyEvent{{Source: "monster-0", StatusApplied: []dungeon.StatusEffect{dungeon.StatusPoison}}},
	}

	cp := orig.Clone()
	cp.Monsters[0].HP = 0
	cp.Inventory[0] = "armor-epic"
	cp.LastHeroAction.Dice[0] = 20
	cp.LastEnemyAction[0].StatusApplied[0] = dungeon.StatusBurn

	s.Equal(10, orig.Monsters[0].HP)
	s.Equal(dungeon.ItemID("weapon-rare"), orig.Inventory[0])
	s.Equal(4, orig.LastHeroAction.Dice[0])
	s.Equal(dungeon.StatusPoison, orig.LastEnemyAction[0].StatusApplied[0])
}

func (s *DungeonTestSuite) TestInventoryHelpers() {
	st := &dungeon.State{Inventory: []dungeon.ItemID{"hppotion-common", "weapon-rare", "hppotion-common"}}

	s.True(st.HasItem("weapon-rare"))
	s.True(st.RemoveItem("hppotion-common"))
	s.Equal([]dungeon.ItemID{"weapon-rare", "hppotion-common"}, st.Inventory)
	s.False(st.RemoveItem("armor-epic"))
}

func (s *DungeonTestSuite) TestParseTarget() {
	testCases := []struct {
		name    string
		target  string
		index   int
		isBoss  bool
		wantErr bool
	}{
		{name: "boss", target: "boss", isBoss: true},
		{name: "first monster", target: "monster-0", index: 0},
		{name: "later monster", target: "monster-7", index: 7},
		{name: "negative index", target: "monster--1", wantErr: true},
		{name: "garbage", target: "dragon", wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			index, isBoss, err := dungeon.ParseTarget(tc.target)
			if tc.wantErr {
				s.Error(err)
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.index, index)
			s.Equal(tc.isBoss, isBoss)
		})
	}
}

func (s *DungeonTestSuite) TestItemIDParse() {
	category, rarity, err := dungeon.NewItemID(dungeon.CategoryManaPotion, dungeon.RarityEpic).Parse()
	s.Require().NoError(err)
	s.Equal(dungeon.CategoryManaPotion, category)
	s.Equal(dungeon.RarityEpic, rarity)

	_, _, err = dungeon.ItemID("sword-legendary").Parse()
	s.Error(err)
	_, _, err = dungeon.ItemID("weapon").Parse()
	s.Error(err)
}

func (s *DungeonTestSuite) TestParseCommand() {
	cmd, err := dungeon.ParseCommand("attack:monster-2")
	s.Require().NoError(err)
	s.Equal(dungeon.Attack("monster-2"), cmd)

	cmd, err = dungeon.ParseCommand("ability:heal")
	s.Require().NoError(err)
	s.Equal(dungeon.UseAbility(dungeon.AbilityHeal), cmd)

	cmd, err = dungeon.ParseCommand("treasure")
	s.Require().NoError(err)
	s.Equal(dungeon.CommandOpenTreasure, cmd.Kind)

	_, err = dungeon.ParseCommand("flee")
	s.Error(err)
}

func (s *DungeonTestSuite) TestValidName() {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "simple", input: "crypt", valid: true},
		{name: "digits and hyphens", input: "team-b-2", valid: true},
		{name: "longest", input: strings.Repeat("a", dungeon.MaxNameLength), valid: true},
		{name: "empty", input: ""},
		{name: "too long", input: strings.Repeat("a", dungeon.MaxNameLength+1)},
		{name: "colon", input: "a:b"},
		{name: "slash", input: "a/b"},
		{name: "uppercase", input: "Crypt"},
		{name: "underscore", input: "old_crypt"},
		{name: "leading hyphen", input: "-crypt"},
		{name: "trailing hyphen", input: "crypt-"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.valid, dungeon.ValidName(tc.input))
		})
	}
}
