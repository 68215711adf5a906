// Package combat resolves one dungeon command into a new state and a
// structured combat log.
package combat

import (
	"fmt"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

// Formula is a CountdSides+Mod dice expression
type Formula struct {
	Count int
	Sides int
	Mod   int
}

// Boss returns the boss variant of a base formula
func (f Formula) Boss() Formula {
	return Formula{Count: f.Count + 1, Sides: f.Sides + 2, Mod: f.Mod + 2}
}

// Min is the lowest total the formula can produce
func (f Formula) Min() int {
	return f.Count + f.Mod
}

// Max is the highest total the formula can produce
func (f Formula) Max() int {
	return f.Count*f.Sides + f.Mod
}

func (f Formula) String() string {
	return fmt.Sprintf("%dd%d+%d", f.Count, f.Sides, f.Mod)
}

// Table is the per-difficulty balance sheet
type Table struct {
	Formula        Formula
	MonsterHP      int
	BossHP         int
	MonsterCounter int
	BossCounter    int
	DropChance     int // percent, monster kills only
}

var tables = map[dungeon.Difficulty]Table{
	dungeon.DifficultyEasy: {
		Formula:        Formula{Count: 1, Sides: 20, Mod: 2},
		MonsterHP:      30,
		BossHP:         200,
		MonsterCounter: 2,
		BossCounter:    2,
		DropChance:     60,
	},
	dungeon.DifficultyNormal: {
		Formula:        Formula{Count: 2, Sides: 12, Mod: 4},
		MonsterHP:      50,
		BossHP:         400,
		MonsterCounter: 4,
		BossCounter:    10,
		DropChance:     45,
	},
	dungeon.DifficultyHard: {
		Formula:        Formula{Count: 3, Sides: 20, Mod: 5},
		MonsterHP:      80,
		BossHP:         800,
		MonsterCounter: 6,
		BossCounter:    15,
		DropChance:     35,
	},
}

// TableFor returns the balance sheet of a difficulty
func TableFor(d dungeon.Difficulty) (Table, bool) {
	t, ok := tables[d]
	return t, ok
}

// Percent math keeps every multiplier exact: a value is scaled by a list of
// percentages and floored once at the end.
func scale(value int, pcts ...int) int {
	num := int64(value)
	den := int64(1)
	for _, p := range pcts {
		num *= int64(p)
		den *= 100
	}
	if num <= 0 {
		return 0
	}
	return int(num / den)
}
