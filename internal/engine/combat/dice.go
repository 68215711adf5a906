package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Roll resolves the damage dice of a difficulty. Boss targets use the boss
// variant of the formula. Dice are drawn left to right.
func Roll(r dice.Roller, d dungeon.Difficulty, isBoss bool) ([]int, int, error) {
	t, ok := TableFor(d)
	if !ok {
		return nil, 0, errors.InvalidArgumentf("unknown difficulty: %s", d)
	}

	f := t.Formula
	if isBoss {
		f = f.Boss()
	}

	rolls, err := r.RollN(f.Count, f.Sides)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to roll %s", f)
	}

	total := f.Mod
	for _, v := range rolls {
		total += v
	}
	return rolls, total, nil
}
