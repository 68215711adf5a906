package combat

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

const (
	tauntRound       = 2 // taunt value on the turn it is used
	healManaCost     = 2
	healAmount       = 30
	healThresholdPct = 80
	backstabCooldown = 3
	backstabPct      = 300
	exhaustedPct     = 50
)

// classStrategy is the capability set of a hero class. Every hook is
// optional; a nil hook falls back to the neutral behavior.
type classStrategy struct {
	baseHP   int
	baseMana int
	ability  dungeon.AbilityKind

	// counterPct is the passive share of counter damage the hero still takes
	counterPct int
	// dodgeChance is the per-source chance to ignore a counter-attack
	dodgeChance int

	// attackPct is the passive damage multiplier of a regular attack
	attackPct func(isBoss bool) int
	// spendAttack pays the resource cost of an attack and returns its multiplier
	spendAttack func(s *dungeon.State) int
	// onMonsterKill runs after the hero's attack kills a monster
	onMonsterKill func(s *dungeon.State)

	checkAbility func(s *dungeon.State) error
	// useAbility applies the ability and reports whether enemies counter
	useAbility func(s *dungeon.State, ev *dungeon.HeroEvent) bool
}

var classes = map[dungeon.HeroClass]classStrategy{
	dungeon.ClassWarrior: {
		baseHP:     150,
		ability:    dungeon.AbilityTaunt,
		counterPct: 80,
		checkAbility: func(s *dungeon.State) error {
			if s.TauntActive > 0 {
				return errors.AbilityUnavailablef("taunt is cooling down")
			}
			return nil
		},
		useAbility: func(s *dungeon.State, ev *dungeon.HeroEvent) bool {
			s.TauntActive = tauntRound
			ev.Kind = dungeon.HeroTaunt
			return true
		},
	},
	dungeon.ClassMage: {
		baseHP:   80,
		baseMana: 5,
		ability:  dungeon.AbilityHeal,
		attackPct: func(isBoss bool) int {
			if isBoss {
				return 150
			}
			return 100
		},
		spendAttack: func(s *dungeon.State) int {
			if s.HeroMana <= 0 {
				s.HeroMana = 0
				return exhaustedPct
			}
			s.HeroMana--
			return 100
		},
		onMonsterKill: func(s *dungeon.State) {
			s.HeroMana++
		},
		checkAbility: func(s *dungeon.State) error {
			if s.HeroMana < healManaCost {
				return errors.AbilityUnavailablef("heal needs %d mana, have %d", healManaCost, s.HeroMana)
			}
			if s.HeroHP*100 >= s.MaxHeroHP*healThresholdPct {
				return errors.AbilityUnavailablef("heal is only available below %d%% hp", healThresholdPct)
			}
			return nil
		},
		useAbility: func(s *dungeon.State, ev *dungeon.HeroEvent) bool {
			s.HeroMana -= healManaCost
			before := s.HeroHP
			s.HeroHP = min(s.HeroHP+healAmount, s.MaxHeroHP)
			ev.Kind = dungeon.HeroHeal
			ev.Amount = s.HeroHP - before
			return false
		},
	},
	dungeon.ClassRogue: {
		baseHP:      100,
		dodgeChance: 30,
		attackPct: func(bool) int {
			return 120
		},
	},
}

func classOf(c dungeon.HeroClass) (classStrategy, error) {
	strategy, ok := classes[c]
	if !ok {
		return classStrategy{}, errors.InvalidArgumentf("unknown hero class: %s", c)
	}
	if strategy.counterPct == 0 {
		strategy.counterPct = 100
	}
	return strategy, nil
}

// checkAbilityFor validates an ability request against the pre-turn state
func (c classStrategy) checkAbilityFor(s *dungeon.State, kind dungeon.AbilityKind) error {
	if c.useAbility == nil || kind != c.ability {
		return errors.AbilityUnavailablef("%s cannot use %s", s.HeroClass, kind)
	}
	if c.checkAbility != nil {
		return c.checkAbility(s)
	}
	return nil
}

func (c classStrategy) damagePct(isBoss, backstab bool) int {
	if backstab {
		return backstabPct
	}
	if c.attackPct == nil {
		return 100
	}
	return c.attackPct(isBoss)
}

func (c classStrategy) spend(s *dungeon.State) int {
	if c.spendAttack == nil {
		return 100
	}
	return c.spendAttack(s)
}

// BaseStats returns the starting hp and mana of a class
func BaseStats(c dungeon.HeroClass) (hp, mana int, err error) {
	strategy, err := classOf(c)
	if err != nil {
		return 0, 0, err
	}
	return strategy.baseHP, strategy.baseMana, nil
}
