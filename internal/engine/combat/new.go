package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

const (
	// DefaultMonsters is used when a dungeon is created without a count
	DefaultMonsters = 3
	// MaxMonsters caps the roster size
	MaxMonsters = 10
)

// NewStateInput describes a dungeon to create
type NewStateInput struct {
	Namespace  string
	Name       string
	Difficulty dungeon.Difficulty
	HeroClass  dungeon.HeroClass
	Monsters   int
}

// Validate checks the creation parameters
func (in *NewStateInput) Validate() error {
	vb := errors.NewValidationBuilder()

	validateName("namespace", in.Namespace, vb)
	validateName("name", in.Name, vb)
	if !in.Difficulty.Valid() {
		vb.InvalidField("difficulty", "must be easy, normal or hard")
	}
	if !in.HeroClass.Valid() {
		vb.InvalidField("hero_class", "must be warrior, mage or rogue")
	}
	if in.Monsters != 0 {
		errors.ValidateRange("monsters", in.Monsters, 1, MaxMonsters, vb)
	}

	return vb.Build()
}

func validateName(field, value string, vb *errors.ValidationBuilder) {
	switch {
	case value == "":
		vb.RequiredField(field)
	case !dungeon.ValidName(value):
		vb.InvalidField(field, "must be a lowercase DNS label")
	}
}

// NewState builds the initial state of a dungeon. The only draw is the
// one-time modifier roll.
func NewState(r dice.Roller, input *NewStateInput) (*dungeon.State, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	t, _ := TableFor(input.Difficulty)
	hp, mana, err := BaseStats(input.HeroClass)
	if err != nil {
		return nil, err
	}

	modifier, err := RollModifier(r)
	if err != nil {
		return nil, err
	}

	count := input.Monsters
	if count == 0 {
		count = DefaultMonsters
	}

	monsterHP := scale(t.MonsterHP, enemyHPPct(modifier))
	monsters := make([]dungeon.Monster, count)
	for i := range monsters {
		monsters[i] = dungeon.Monster{HP: monsterHP, MaxHP: monsterHP, Alive: true}
	}
	bossHP := scale(t.BossHP, enemyHPPct(modifier))

	return &dungeon.State{
		Namespace:  input.Namespace,
		Name:       input.Name,
		Difficulty: input.Difficulty,
		HeroClass:  input.HeroClass,
		HeroHP:     hp,
		MaxHeroHP:  hp,
		HeroMana:   mana,
		Monsters:   monsters,
		Boss: dungeon.Boss{
			HP:    bossHP,
			MaxHP: bossHP,
			State: dungeon.BossPending,
		},
		Modifier:  modifier,
		Inventory: []dungeon.ItemID{},
	}, nil
}
