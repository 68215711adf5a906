package dungeon

import "slices"

// HeroEventKind names what the hero did this turn
type HeroEventKind string

// Hero event kinds
const (
	HeroAttack       HeroEventKind = "attack"
	HeroBackstab     HeroEventKind = "backstab"
	HeroTaunt        HeroEventKind = "taunt"
	HeroHeal         HeroEventKind = "heal"
	HeroUseItem      HeroEventKind = "use_item"
	HeroEquipItem    HeroEventKind = "equip_item"
	HeroOpenTreasure HeroEventKind = "open_treasure"
	HeroStunned      HeroEventKind = "stunned"
	HeroSlain        HeroEventKind = "slain"
)

// StatusEffect names a timed effect
type StatusEffect string

// Status effects
const (
	StatusPoison StatusEffect = "poison"
	StatusBurn   StatusEffect = "burn"
	StatusStun   StatusEffect = "stun"
)

// Terminal is the end condition reached at the end of a turn
type Terminal string

// Terminal values
const (
	TerminalNone     Terminal = "none"
	TerminalVictory  Terminal = "victory"
	TerminalDefeated Terminal = "defeated"
)

// HeroEvent describes the hero's action. Amount is damage dealt, HP healed or
// the value granted by an item depending on Kind.
type HeroEvent struct {
	Kind   HeroEventKind `json:"kind"`
	Amount int           `json:"amount"`
	Target string        `json:"target,omitempty"`
	Item   ItemID        `json:"item,omitempty"`
	Crit   bool          `json:"crit"`
	Killed bool          `json:"killed"`
	Dice   []int         `json:"dice,omitempty"`
}

func (e HeroEvent) clone() HeroEvent {
	e.Dice = slices.Clone(e.Dice)
	return e
}

// EnemyEvent is one counter-attack
type EnemyEvent struct {
	Source        string         `json:"source"`
	Amount        int            `json:"amount"`
	Dodged        bool           `json:"dodged"`
	StatusApplied []StatusEffect `json:"status_applied,omitempty"`
}

func (e EnemyEvent) clone() EnemyEvent {
	e.StatusApplied = slices.Clone(e.StatusApplied)
	return e
}

// StatusTick is damage or a lost action caused by an active effect
type StatusTick struct {
	Effect    StatusEffect `json:"effect"`
	Amount    int          `json:"amount"`
	TurnsLeft int          `json:"turns_left"`
}

// CombatLog is the structured record of one resolved command
type CombatLog struct {
	TurnID      string       `json:"turn_id,omitempty"`
	Round       int          `json:"round"`
	HeroEvent   HeroEvent    `json:"hero_event"`
	StatusTicks []StatusTick `json:"status_ticks,omitempty"`
	EnemyEvents []EnemyEvent `json:"enemy_events"`
	LootDropped ItemID       `json:"loot_dropped,omitempty"`
	BossReady   bool         `json:"boss_ready,omitempty"`
	Terminal    Terminal     `json:"terminal"`
}
