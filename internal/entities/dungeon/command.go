package dungeon

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind selects the action of a command
type CommandKind string

// Command kinds
const (
	CommandAttack       CommandKind = "attack"
	CommandBackstab     CommandKind = "backstab"
	CommandAbility      CommandKind = "ability"
	CommandUseItem      CommandKind = "use_item"
	CommandEquipItem    CommandKind = "equip_item"
	CommandOpenTreasure CommandKind = "open_treasure"
)

// AbilityKind names a class ability
type AbilityKind string

// Abilities
const (
	AbilityTaunt AbilityKind = "taunt"
	AbilityHeal  AbilityKind = "heal"
)

// BossTarget is the target id of the boss
const BossTarget = "boss"

// Command is one player action submitted to a dungeon
type Command struct {
	Kind    CommandKind `json:"kind"`
	Target  string      `json:"target,omitempty"`
	Ability AbilityKind `json:"ability,omitempty"`
	Item    ItemID      `json:"item,omitempty"`
}

// Attack builds an attack command
func Attack(target string) Command {
	return Command{Kind: CommandAttack, Target: target}
}

// Backstab builds a rogue backstab command
func Backstab(target string) Command {
	return Command{Kind: CommandBackstab, Target: target}
}

// UseAbility builds an ability command
func UseAbility(kind AbilityKind) Command {
	return Command{Kind: CommandAbility, Ability: kind}
}

// UseItem builds a potion command
func UseItem(id ItemID) Command {
	return Command{Kind: CommandUseItem, Item: id}
}

// EquipItem builds an equip command
func EquipItem(id ItemID) Command {
	return Command{Kind: CommandEquipItem, Item: id}
}

// OpenTreasure builds the post-victory treasure command
func OpenTreasure() Command {
	return Command{Kind: CommandOpenTreasure}
}

// MonsterTarget returns the target id of the monster at index i
func MonsterTarget(i int) string {
	return fmt.Sprintf("monster-%d", i)
}

// ParseTarget resolves a target id. It returns isBoss for the boss and the
// monster index otherwise.
func ParseTarget(target string) (index int, isBoss bool, err error) {
	if target == BossTarget {
		return 0, true, nil
	}

	raw, ok := strings.CutPrefix(target, "monster-")
	if !ok {
		return 0, false, fmt.Errorf("unknown target %q", target)
	}

	index, err = strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, false, fmt.Errorf("unknown target %q", target)
	}
	return index, false, nil
}

// ParseCommand reads the short command syntax used by the CLI:
// attack:monster-0, backstab:boss, ability:heal, use:hppotion-rare,
// equip:weapon-epic and treasure.
func ParseCommand(s string) (Command, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	switch verb {
	case "attack":
		return Attack(arg), nil
	case "backstab":
		return Backstab(arg), nil
	case "ability":
		return UseAbility(AbilityKind(arg)), nil
	case "use":
		return UseItem(ItemID(arg)), nil
	case "equip":
		return EquipItem(ItemID(arg)), nil
	case "treasure":
		return OpenTreasure(), nil
	}
	return Command{}, fmt.Errorf("unknown command %q", s)
}
