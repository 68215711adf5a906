package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

const (
	noModifierChance = 20
	fortuneCritPct   = 20
)

// RollModifier picks the dungeon modifier: none on a d100 of 20 or less,
// otherwise one of the six uniformly.
func RollModifier(r dice.Roller) (dungeon.Modifier, error) {
	none, err := rng.Chance(r, noModifierChance)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll modifier")
	}
	if none {
		return dungeon.ModifierNone, nil
	}

	i, err := rng.Pick(r, len(dungeon.RolledModifiers))
	if err != nil {
		return "", errors.Wrap(err, "failed to roll modifier")
	}
	return dungeon.RolledModifiers[i], nil
}

// outgoingPct scales hero damage
func outgoingPct(m dungeon.Modifier) int {
	switch m {
	case dungeon.ModifierCurseDarkness:
		return 75
	case dungeon.ModifierBlessingStrength:
		return 150
	}
	return 100
}

// incomingPct scales every counter-attack
func incomingPct(m dungeon.Modifier) int {
	if m == dungeon.ModifierBlessingResilience {
		return 50
	}
	return 100
}

// bossCounterPct scales the boss counter only
func bossCounterPct(m dungeon.Modifier) int {
	if m == dungeon.ModifierCurseFury {
		return 200
	}
	return 100
}

// enemyHPPct scales monster and boss max HP at creation
func enemyHPPct(m dungeon.Modifier) int {
	if m == dungeon.ModifierCurseFortitude {
		return 150
	}
	return 100
}

// critChance is zero unless the dungeon is blessed with fortune
func critChance(m dungeon.Modifier) int {
	if m == dungeon.ModifierBlessingFortune {
		return fortuneCritPct
	}
	return 0
}
