package client

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

func printState(st *dungeon.State) {
	fmt.Printf("Dungeon %s/%s (%s, %s)\n", st.Namespace, st.Name, st.Difficulty, st.HeroClass)
	fmt.Printf("  Hero: %d/%d HP", st.HeroHP, st.MaxHeroHP)
	if st.HeroClass == dungeon.ClassMage {
		fmt.Printf(", %d mana", st.HeroMana)
	}
	fmt.Println()
	if st.Modifier != dungeon.ModifierNone {
		fmt.Printf("  Modifier: %s\n", st.Modifier)
	}

	for i, m := range st.Monsters {
		status := "alive"
		if !m.Alive {
			status = "dead"
		}
		fmt.Printf("  %s: %d/%d HP (%s)\n", dungeon.MonsterTarget(i), m.HP, m.MaxHP, status)
	}
	fmt.Printf("  boss: %d/%d HP (%s)\n", st.Boss.HP, st.Boss.MaxHP, st.Boss.State)

	var effects []string
	if st.StatusEffects.PoisonTurns > 0 {
		effects = append(effects, fmt.Sprintf("poison %d", st.StatusEffects.PoisonTurns))
	}
	if st.StatusEffects.BurnTurns > 0 {
		effects = append(effects, fmt.Sprintf("burn %d", st.StatusEffects.BurnTurns))
	}
	if st.StatusEffects.StunTurns > 0 {
		effects = append(effects, fmt.Sprintf("stun %d", st.StatusEffects.StunTurns))
	}
	if len(effects) > 0 {
		fmt.Printf("  Effects: %s\n", strings.Join(effects, ", "))
	}
	if st.Equipment.Weapon != "" || st.Equipment.Armor != "" {
		fmt.Printf("  Equipped: weapon=%s armor=%s\n", st.Equipment.Weapon, st.Equipment.Armor)
	}
	if len(st.Inventory) > 0 {
		items := make([]string, len(st.Inventory))
		for i, id := range st.Inventory {
			items[i] = string(id)
		}
		fmt.Printf("  Inventory: %s\n", strings.Join(items, ", "))
	}

	switch {
	case st.Victory:
		fmt.Printf("  Victory after %d rounds", st.TurnRound)
		if st.TreasureOpened {
			fmt.Printf(", treasure: %s", st.Treasure)
		}
		fmt.Println()
	case st.Defeated:
		fmt.Printf("  Defeated after %d rounds\n", st.TurnRound)
	default:
		fmt.Printf("  Round: %d\n", st.TurnRound)
	}
}

func printLog(log *dungeon.CombatLog) {
	fmt.Printf("Round %d (%s)\n", log.Round, log.TurnID)
	for _, tick := range log.StatusTicks {
		fmt.Printf("  %s deals %d (%d turns left)\n", tick.Effect, tick.Amount, tick.TurnsLeft)
	}

	ev := log.HeroEvent
	switch ev.Kind {
	case dungeon.HeroAttack, dungeon.HeroBackstab:
		fmt.Printf("  Hero %s %s for %d", ev.Kind, ev.Target, ev.Amount)
		if ev.Crit {
			fmt.Print(" (critical)")
		}
		if ev.Killed {
			fmt.Print(", killed")
		}
		fmt.Println()
	case dungeon.HeroUseItem, dungeon.HeroEquipItem:
		fmt.Printf("  Hero %s %s\n", ev.Kind, ev.Item)
	default:
		fmt.Printf("  Hero %s %d\n", ev.Kind, ev.Amount)
	}

	for _, enemy := range log.EnemyEvents {
		if enemy.Dodged {
			fmt.Printf("  %s missed (dodged)\n", enemy.Source)
			continue
		}
		fmt.Printf("  %s hits for %d", enemy.Source, enemy.Amount)
		for _, effect := range enemy.StatusApplied {
			fmt.Printf(", %s", effect)
		}
		fmt.Println()
	}

	if log.LootDropped != "" {
		fmt.Printf("  Loot: %s\n", log.LootDropped)
	}
	if log.BossReady {
		fmt.Println("  The boss awakens")
	}
	if log.Terminal != dungeon.TerminalNone {
		fmt.Printf("  Result: %s\n", log.Terminal)
	}
}
