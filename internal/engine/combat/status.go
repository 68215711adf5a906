package combat

import "github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"

const (
	poisonDamage = 5
	poisonTurns  = 3
	burnDamage   = 8
	burnTurns    = 2
	stunTurns    = 1
)

func turnsOf(fx *dungeon.StatusEffects, effect dungeon.StatusEffect) *int {
	switch effect {
	case dungeon.StatusPoison:
		return &fx.PoisonTurns
	case dungeon.StatusBurn:
		return &fx.BurnTurns
	case dungeon.StatusStun:
		return &fx.StunTurns
	}
	return nil
}

func durationOf(effect dungeon.StatusEffect) int {
	switch effect {
	case dungeon.StatusPoison:
		return poisonTurns
	case dungeon.StatusBurn:
		return burnTurns
	case dungeon.StatusStun:
		return stunTurns
	}
	return 0
}

// isActive reports whether an effect still has turns left
func isActive(fx *dungeon.StatusEffects, effect dungeon.StatusEffect) bool {
	turns := turnsOf(fx, effect)
	return turns != nil && *turns > 0
}

// applyStatus starts an effect. It is a no-op while the effect is active.
func applyStatus(fx *dungeon.StatusEffects, effect dungeon.StatusEffect) bool {
	turns := turnsOf(fx, effect)
	if turns == nil || *turns > 0 {
		return false
	}
	*turns = durationOf(effect)
	return true
}

// tickStatuses runs the start-of-turn ledger: poison, then burn, then stun.
// It reports whether the hero loses this turn's action to stun.
func tickStatuses(s *dungeon.State) ([]dungeon.StatusTick, bool) {
	var ticks []dungeon.StatusTick
	fx := &s.StatusEffects

	if fx.PoisonTurns > 0 {
		fx.PoisonTurns--
		s.HeroHP = max(s.HeroHP-poisonDamage, 0)
		ticks = append(ticks, dungeon.StatusTick{Effect: dungeon.StatusPoison, Amount: poisonDamage, TurnsLeft: fx.PoisonTurns})
	}
	if fx.BurnTurns > 0 {
		fx.BurnTurns--
		s.HeroHP = max(s.HeroHP-burnDamage, 0)
		ticks = append(ticks, dungeon.StatusTick{Effect: dungeon.StatusBurn, Amount: burnDamage, TurnsLeft: fx.BurnTurns})
	}

	stunned := false
	if fx.StunTurns > 0 {
		fx.StunTurns--
		stunned = true
		ticks = append(ticks, dungeon.StatusTick{Effect: dungeon.StatusStun, TurnsLeft: fx.StunTurns})
	}

	return ticks, stunned
}
