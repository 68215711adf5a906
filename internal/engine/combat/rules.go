package combat

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// UnlimitedUses marks a weapon that never wears out
const UnlimitedUses = -1

// Rules holds the tunable parts of the loot tables
type Rules struct {
	// WeaponUses is the durability of an equipped weapon by rarity
	WeaponUses map[dungeon.Rarity]int
}

// DefaultRules gives common weapons three uses and the rest unlimited
func DefaultRules() Rules {
	return Rules{
		WeaponUses: map[dungeon.Rarity]int{
			dungeon.RarityCommon: 3,
			dungeon.RarityRare:   UnlimitedUses,
			dungeon.RarityEpic:   UnlimitedUses,
		},
	}
}

// Validate ensures every rarity has a usable durability
func (r Rules) Validate() error {
	vb := errors.NewValidationBuilder()
	for _, rarity := range []dungeon.Rarity{dungeon.RarityCommon, dungeon.RarityRare, dungeon.RarityEpic} {
		uses, ok := r.WeaponUses[rarity]
		switch {
		case !ok:
			vb.RequiredField("weapon_uses." + string(rarity))
		case uses == 0 || uses < UnlimitedUses:
			vb.InvalidField("weapon_uses."+string(rarity), "must be positive or -1")
		}
	}
	return vb.Build()
}

func (r Rules) weaponUses(rarity dungeon.Rarity) int {
	if uses, ok := r.WeaponUses[rarity]; ok {
		return uses
	}
	return DefaultRules().WeaponUses[rarity]
}
