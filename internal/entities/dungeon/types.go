// Package dungeon holds the combat state of a single dungeon encounter and
// the commands and logs that flow through a turn.
package dungeon

import (
	"fmt"
	"strings"
)

// Difficulty drives the HP, dice and counter tables of a dungeon
type Difficulty string

// Difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every supported difficulty
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// HeroClass selects the passive and the ability of the hero
type HeroClass string

// Hero classes
const (
	ClassWarrior HeroClass = "warrior"
	ClassMage    HeroClass = "mage"
	ClassRogue   HeroClass = "rogue"
)

// HeroClasses lists every supported class
var HeroClasses = []HeroClass{ClassWarrior, ClassMage, ClassRogue}

// Valid reports whether c is a known class
func (c HeroClass) Valid() bool {
	switch c {
	case ClassWarrior, ClassMage, ClassRogue:
		return true
	}
	return false
}

// BossState tracks the boss lifecycle. It only ever moves forward.
type BossState string

// Boss states
const (
	BossPending  BossState = "pending"
	BossReady    BossState = "ready"
	BossDefeated BossState = "defeated"
)

// Rank orders boss states so callers can check monotonicity
func (b BossState) Rank() int {
	switch b {
	case BossReady:
		return 1
	case BossDefeated:
		return 2
	}
	return 0
}

// Modifier is a dungeon-wide blessing or curse fixed at creation
type Modifier string

// Modifiers
const (
	ModifierNone               Modifier = "none"
	ModifierCurseFortitude     Modifier = "curse-fortitude"
	ModifierCurseFury          Modifier = "curse-fury"
	ModifierCurseDarkness      Modifier = "curse-darkness"
	ModifierBlessingStrength   Modifier = "blessing-strength"
	ModifierBlessingResilience Modifier = "blessing-resilience"
	ModifierBlessingFortune    Modifier = "blessing-fortune"
)

// RolledModifiers is the order used when a non-none modifier is rolled
var RolledModifiers = []Modifier{
	ModifierCurseFortitude,
	ModifierCurseFury,
	ModifierCurseDarkness,
	ModifierBlessingStrength,
	ModifierBlessingResilience,
	ModifierBlessingFortune,
}

// ItemCategory is the kind of loot
type ItemCategory string

// Item categories
const (
	CategoryWeapon     ItemCategory = "weapon"
	CategoryArmor      ItemCategory = "armor"
	CategoryHPPotion   ItemCategory = "hppotion"
	CategoryManaPotion ItemCategory = "manapotion"
)

// ItemCategories is the order used for uniform category rolls
var ItemCategories = []ItemCategory{CategoryWeapon, CategoryArmor, CategoryHPPotion, CategoryManaPotion}

// Rarity is the loot tier
type Rarity string

// Rarities
const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityEpic   Rarity = "epic"
)

// ItemID names an item as {category}-{rarity}
type ItemID string

// NewItemID builds the item id for a category and rarity
func NewItemID(category ItemCategory, rarity Rarity) ItemID {
	return ItemID(fmt.Sprintf("%s-%s", category, rarity))
}

// Parse splits an item id into its category and rarity
func (id ItemID) Parse() (ItemCategory, Rarity, error) {
	category, rarity, ok := strings.Cut(string(id), "-")
	if !ok {
		return "", "", fmt.Errorf("malformed item id %q", id)
	}

	c := ItemCategory(category)
	switch c {
	case CategoryWeapon, CategoryArmor, CategoryHPPotion, CategoryManaPotion:
	default:
		return "", "", fmt.Errorf("unknown item category %q", category)
	}

	r := Rarity(rarity)
	switch r {
	case RarityCommon, RarityRare, RarityEpic:
	default:
		return "", "", fmt.Errorf("unknown item rarity %q", rarity)
	}

	return c, r, nil
}

// MaxNameLength caps namespaces and dungeon names
const MaxNameLength = 63

// ValidName reports whether s can name a namespace or a dungeon. Names are
// lowercase DNS labels: letters, digits and inner hyphens.
func ValidName(s string) bool {
	if s == "" || len(s) > MaxNameLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-' && i > 0 && i < len(s)-1:
		default:
			return false
		}
	}
	return true
}
