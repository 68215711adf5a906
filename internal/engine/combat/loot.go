package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

const (
	commonCeiling = 70 // d100 at or under is common
	rareCeiling   = 95 // then rare, epic above
	bossRarePct   = 50
)

var (
	weaponBonus = map[dungeon.Rarity]int{dungeon.RarityCommon: 5, dungeon.RarityRare: 10, dungeon.RarityEpic: 20}
	armorBonus  = map[dungeon.Rarity]int{dungeon.RarityCommon: 10, dungeon.RarityRare: 20, dungeon.RarityEpic: 30}
	hpPotion    = map[dungeon.Rarity]int{dungeon.RarityCommon: 20, dungeon.RarityRare: 40}
	manaPotion  = map[dungeon.Rarity]int{dungeon.RarityCommon: 2, dungeon.RarityRare: 3, dungeon.RarityEpic: 5}
)

func rollCategory(r dice.Roller) (dungeon.ItemCategory, error) {
	i, err := rng.Pick(r, len(dungeon.ItemCategories))
	if err != nil {
		return "", err
	}
	return dungeon.ItemCategories[i], nil
}

// rollMonsterDrop rolls the drop chance, then category, then rarity.
// It returns "" when nothing drops.
func rollMonsterDrop(r dice.Roller, d dungeon.Difficulty) (dungeon.ItemID, error) {
	t, ok := TableFor(d)
	if !ok {
		return "", errors.InvalidArgumentf("unknown difficulty: %s", d)
	}

	drops, err := rng.Chance(r, t.DropChance)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll drop")
	}
	if !drops {
		return "", nil
	}

	category, err := rollCategory(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll item category")
	}

	v, err := r.Roll(100)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll item rarity")
	}
	rarity := dungeon.RarityEpic
	switch {
	case v <= commonCeiling:
		rarity = dungeon.RarityCommon
	case v <= rareCeiling:
		rarity = dungeon.RarityRare
	}

	return dungeon.NewItemID(category, rarity), nil
}

// rollBossDrop always yields a rare or epic item. Treasure uses the same table.
func rollBossDrop(r dice.Roller) (dungeon.ItemID, error) {
	category, err := rollCategory(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll item category")
	}

	rare, err := rng.Chance(r, bossRarePct)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll item rarity")
	}
	if rare {
		return dungeon.NewItemID(category, dungeon.RarityRare), nil
	}
	return dungeon.NewItemID(category, dungeon.RarityEpic), nil
}

// useItem consumes a potion and returns the amount restored
func useItem(s *dungeon.State, id dungeon.ItemID) (int, error) {
	category, rarity, err := id.Parse()
	if err != nil {
		return 0, errors.ItemUnavailablef("%v", err)
	}
	if !s.HasItem(id) {
		return 0, errors.ItemUnavailablef("%s is not in the inventory", id)
	}

	var restored int
	switch category {
	case dungeon.CategoryHPPotion:
		before := s.HeroHP
		if rarity == dungeon.RarityEpic {
			s.HeroHP = s.MaxHeroHP
		} else {
			s.HeroHP = min(s.HeroHP+hpPotion[rarity], s.MaxHeroHP)
		}
		restored = s.HeroHP - before
	case dungeon.CategoryManaPotion:
		if s.HeroClass != dungeon.ClassMage {
			return 0, errors.ItemUnavailablef("only a mage can drink %s", id)
		}
		restored = manaPotion[rarity]
		s.HeroMana += restored
	default:
		return 0, errors.ItemUnavailablef("%s must be equipped, not used", id)
	}

	s.RemoveItem(id)
	return restored, nil
}

// equipItem moves a weapon or armor from the inventory into its slot,
// discarding whatever was there. It returns the new bonus.
func equipItem(s *dungeon.State, id dungeon.ItemID, rules Rules) (int, error) {
	category, rarity, err := id.Parse()
	if err != nil {
		return 0, errors.ItemUnavailablef("%v", err)
	}
	if !s.HasItem(id) {
		return 0, errors.ItemUnavailablef("%s is not in the inventory", id)
	}

	var bonus int
	switch category {
	case dungeon.CategoryWeapon:
		bonus = weaponBonus[rarity]
		s.Equipment.Weapon = id
		s.Equipment.WeaponBonus = bonus
		s.Equipment.WeaponUses = rules.weaponUses(rarity)
	case dungeon.CategoryArmor:
		bonus = armorBonus[rarity]
		s.Equipment.Armor = id
		s.Equipment.ArmorBonus = bonus
	default:
		return 0, errors.ItemUnavailablef("%s is a potion, use it instead", id)
	}

	s.RemoveItem(id)
	return bonus, nil
}

// spendWeapon returns the weapon bonus for this hit and wears the weapon down
func spendWeapon(eq *dungeon.Equipment) int {
	bonus := eq.WeaponBonus
	if bonus <= 0 {
		return 0
	}
	if eq.WeaponUses > 0 {
		eq.WeaponUses--
		if eq.WeaponUses == 0 {
			eq.WeaponBonus = 0
			eq.Weapon = ""
		}
	}
	return bonus
}
