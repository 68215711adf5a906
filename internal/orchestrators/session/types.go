package session

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

// CreateSessionInput defines the request for creating a dungeon
type CreateSessionInput struct {
	Namespace  string // defaults to "default"
	Name       string
	Difficulty dungeon.Difficulty
	HeroClass  dungeon.HeroClass
	Monsters   int // 0 uses the default roster size
}

// CreateSessionOutput defines the response for creating a dungeon
type CreateSessionOutput struct {
	State *dungeon.State
}

// SubmitInput defines the request for resolving one command
type SubmitInput struct {
	Namespace string
	Name      string
	Command   dungeon.Command
}

// SubmitOutput defines the response for resolving one command
type SubmitOutput struct {
	State *dungeon.State
	Log   *dungeon.CombatLog
}

// SnapshotInput defines the request for reading a dungeon
type SnapshotInput struct {
	Namespace string
	Name      string
}

// SnapshotOutput defines the response for reading a dungeon
type SnapshotOutput struct {
	State *dungeon.State
}

// ListSessionsInput defines the request for listing dungeons
type ListSessionsInput struct {
	Namespace string // empty lists every namespace
}

// ListSessionsOutput defines the response for listing dungeons
type ListSessionsOutput struct {
	Sessions []*Summary
}

// Summary is the list view of a dungeon
type Summary struct {
	Namespace      string             `json:"namespace"`
	Name           string             `json:"name"`
	Difficulty     dungeon.Difficulty `json:"difficulty"`
	HeroClass      dungeon.HeroClass  `json:"hero_class"`
	HeroHP         int                `json:"hero_hp"`
	LivingMonsters int                `json:"living_monsters"`
	BossState      dungeon.BossState  `json:"boss_state"`
	Victory        bool               `json:"victory"`
	Defeated       bool               `json:"defeated"`
	TurnRound      int                `json:"turn_round"`
}

// DeleteSessionInput defines the request for deleting a dungeon
type DeleteSessionInput struct {
	Namespace string
	Name      string
}

// DeleteSessionOutput defines the response for deleting a dungeon
type DeleteSessionOutput struct{}

func summarize(s *dungeon.State) *Summary {
	return &Summary{
		Namespace:      s.Namespace,
		Name:           s.Name,
		Difficulty:     s.Difficulty,
		HeroClass:      s.HeroClass,
		HeroHP:         s.HeroHP,
		LivingMonsters: s.LivingMonsters(),
		BossState:      s.Boss.State,
		Victory:        s.Victory,
		Defeated:       s.Defeated,
		TurnRound:      s.TurnRound,
	}
}
