package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

const (
	poisonChance = 20
	burnChance   = 25
	stunChance   = 15
)

// ResolverConfig holds the dependencies of a Resolver
type ResolverConfig struct {
	Roller dice.Roller
	Rules  Rules
}

// Validate ensures all required dependencies are provided
func (c *ResolverConfig) Validate() error {
	if c.Roller == nil {
		return errors.InvalidArgument("roller is required")
	}
	return c.Rules.Validate()
}

// Resolver runs the turn pipeline. It is stateless apart from its roller,
// so callers serialize access per dungeon, not per resolver.
type Resolver struct {
	roller dice.Roller
	rules  Rules
}

// NewResolver creates a turn resolver
func NewResolver(cfg *ResolverConfig) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Resolver{roller: cfg.Roller, rules: cfg.Rules}, nil
}

// NewState builds a fresh dungeon with the resolver's roller
func (r *Resolver) NewState(input *NewStateInput) (*dungeon.State, error) {
	return NewState(r.roller, input)
}

// Resolve applies one command. The input state is never modified. On error
// no state is returned, so a rejected command leaves nothing behind.
func (r *Resolver) Resolve(s *dungeon.State, cmd dungeon.Command) (*dungeon.State, *dungeon.CombatLog, error) {
	if s == nil {
		return nil, nil, errors.InvalidArgument("state is required")
	}

	table, ok := TableFor(s.Difficulty)
	if !ok {
		return nil, nil, errors.Internalf("dungeon has unknown difficulty %q", s.Difficulty)
	}
	class, err := classOf(s.HeroClass)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInternal, "dungeon has unknown hero class")
	}

	if cmd.Kind == dungeon.CommandOpenTreasure {
		return r.openTreasure(s)
	}
	if s.IsOver() {
		return nil, nil, errors.GameOver(gameOverMessage(s))
	}

	t := &turn{
		resolver: r,
		table:    table,
		class:    class,
		next:     s.Clone(),
		log:      &dungeon.CombatLog{Terminal: dungeon.TerminalNone, EnemyEvents: []dungeon.EnemyEvent{}},
	}

	switch cmd.Kind {
	case dungeon.CommandAttack, dungeon.CommandBackstab:
		err = t.strike(cmd)
	case dungeon.CommandAbility:
		err = t.ability(cmd.Ability)
	case dungeon.CommandUseItem:
		err = t.useItem(cmd.Item)
	case dungeon.CommandEquipItem:
		err = t.equipItem(cmd.Item)
	default:
		err = errors.InvalidArgumentf("unknown command kind: %q", cmd.Kind)
	}
	if err != nil {
		return nil, nil, err
	}

	return t.finish()
}

func gameOverMessage(s *dungeon.State) string {
	if s.Victory {
		return "the dungeon has been cleared"
	}
	return "the hero has fallen"
}

// turn is the working set of one resolution
type turn struct {
	resolver *Resolver
	table    Table
	class    classStrategy
	next     *dungeon.State
	log      *dungeon.CombatLog
}

func (t *turn) roller() dice.Roller {
	return t.resolver.roller
}

// target validates a target id against the pre-turn state
func (t *turn) target(id string) (index int, isBoss bool, err error) {
	index, isBoss, err = dungeon.ParseTarget(id)
	if err != nil {
		return 0, false, errors.InvalidTargetf("%v", err)
	}

	if isBoss {
		switch t.next.Boss.State {
		case dungeon.BossPending:
			return 0, false, errors.InvalidTargetf("the boss is locked until every monster falls")
		case dungeon.BossDefeated:
			return 0, false, errors.InvalidTargetf("the boss is already defeated")
		}
		return 0, true, nil
	}

	if index >= len(t.next.Monsters) {
		return 0, false, errors.InvalidTargetf("no monster at index %d", index)
	}
	if !t.next.Monsters[index].Alive {
		return 0, false, errors.InvalidTargetf("monster %d is already dead", index)
	}
	return index, false, nil
}

// startTurn advances cooldowns and ticks statuses. It reports whether the
// hero still gets to act.
func (t *turn) startTurn() bool {
	s := t.next
	if s.BackstabCooldown > 0 {
		s.BackstabCooldown--
	}
	if s.TauntActive > 0 {
		s.TauntActive--
	}

	ticks, stunned := tickStatuses(s)
	t.log.StatusTicks = ticks

	switch {
	case s.HeroHP <= 0:
		t.log.HeroEvent = dungeon.HeroEvent{Kind: dungeon.HeroSlain}
		return false
	case stunned:
		t.log.HeroEvent = dungeon.HeroEvent{Kind: dungeon.HeroStunned}
		return false
	}
	return true
}

func (t *turn) strike(cmd dungeon.Command) error {
	backstab := cmd.Kind == dungeon.CommandBackstab
	if backstab {
		if t.next.HeroClass != dungeon.ClassRogue {
			return errors.AbilityUnavailablef("only a rogue can backstab")
		}
		if t.next.BackstabCooldown > 0 {
			return errors.AbilityUnavailablef("backstab is cooling down for %d more turns", t.next.BackstabCooldown)
		}
	}

	index, isBoss, err := t.target(cmd.Target)
	if err != nil {
		return err
	}

	if !t.startTurn() {
		return nil
	}

	ev, err := t.heroDamage(isBoss, backstab)
	if err != nil {
		return err
	}
	ev.Target = cmd.Target
	if backstab {
		ev.Kind = dungeon.HeroBackstab
		t.next.BackstabCooldown = backstabCooldown
	}

	if isBoss {
		t.next.Boss.HP = max(t.next.Boss.HP-ev.Amount, 0)
		ev.Killed = t.next.Boss.HP == 0
	} else {
		m := &t.next.Monsters[index]
		m.HP = max(m.HP-ev.Amount, 0)
		if m.HP == 0 {
			m.Alive = false
			ev.Killed = true
			if t.class.onMonsterKill != nil {
				t.class.onMonsterKill(t.next)
			}
		}
	}
	t.log.HeroEvent = ev

	if err := t.counters(); err != nil {
		return err
	}

	if ev.Killed {
		var drop dungeon.ItemID
		if isBoss {
			drop, err = rollBossDrop(t.roller())
		} else {
			drop, err = rollMonsterDrop(t.roller(), t.next.Difficulty)
		}
		if err != nil {
			return err
		}
		if drop != "" {
			t.next.Inventory = append(t.next.Inventory, drop)
			t.log.LootDropped = drop
		}
	}
	return nil
}

// heroDamage draws the dice and then the crit roll and applies every
// multiplier in a single floor.
func (t *turn) heroDamage(isBoss, backstab bool) (dungeon.HeroEvent, error) {
	rolls, total, err := Roll(t.roller(), t.next.Difficulty, isBoss)
	if err != nil {
		return dungeon.HeroEvent{}, err
	}

	crit := false
	if chance := critChance(t.next.Modifier); chance > 0 {
		crit, err = rng.Chance(t.roller(), chance)
		if err != nil {
			return dungeon.HeroEvent{}, errors.Wrap(err, "failed to roll crit")
		}
	}

	dmg := scale(total,
		t.class.damagePct(isBoss, backstab),
		t.class.spend(t.next),
		outgoingPct(t.next.Modifier),
	)
	dmg += spendWeapon(&t.next.Equipment)
	if crit {
		dmg *= 2
	}

	return dungeon.HeroEvent{
		Kind:   dungeon.HeroAttack,
		Amount: dmg,
		Crit:   crit,
		Dice:   rolls,
	}, nil
}

// counters lets every living monster and then a ready boss strike back.
// Dodge is rolled per source before its status procs.
func (t *turn) counters() error {
	s := t.next
	mitigation := []int{t.class.counterPct, incomingPct(s.Modifier), 100 - s.Equipment.ArmorBonus}
	if s.TauntActive == tauntRound {
		mitigation = append(mitigation, 50)
	}

	events := make([]dungeon.EnemyEvent, 0, len(s.Monsters)+1)
	for i, m := range s.Monsters {
		if !m.Alive || s.HeroHP <= 0 {
			continue
		}
		ev, err := t.counter(dungeon.MonsterTarget(i), t.table.MonsterCounter, mitigation,
			statusProc{dungeon.StatusPoison, poisonChance})
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	if s.Boss.State == dungeon.BossReady && s.Boss.HP > 0 && s.HeroHP > 0 {
		base := scale(t.table.BossCounter, bossCounterPct(s.Modifier))
		ev, err := t.counter(dungeon.BossTarget, base, mitigation,
			statusProc{dungeon.StatusBurn, burnChance},
			statusProc{dungeon.StatusStun, stunChance})
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	t.log.EnemyEvents = events
	return nil
}

type statusProc struct {
	effect dungeon.StatusEffect
	chance int
}

func (t *turn) counter(source string, base int, mitigation []int, procs ...statusProc) (dungeon.EnemyEvent, error) {
	s := t.next
	ev := dungeon.EnemyEvent{Source: source}

	if t.class.dodgeChance > 0 {
		dodged, err := rng.Chance(t.roller(), t.class.dodgeChance)
		if err != nil {
			return ev, errors.Wrap(err, "failed to roll dodge")
		}
		if dodged {
			ev.Dodged = true
			return ev, nil
		}
	}

	ev.Amount = scale(base, mitigation...)
	s.HeroHP = max(s.HeroHP-ev.Amount, 0)

	for _, proc := range procs {
		if isActive(&s.StatusEffects, proc.effect) {
			continue
		}
		hit, err := rng.Chance(t.roller(), proc.chance)
		if err != nil {
			return ev, errors.Wrapf(err, "failed to roll %s", proc.effect)
		}
		if hit && applyStatus(&s.StatusEffects, proc.effect) {
			ev.StatusApplied = append(ev.StatusApplied, proc.effect)
		}
	}
	return ev, nil
}

func (t *turn) ability(kind dungeon.AbilityKind) error {
	if err := t.class.checkAbilityFor(t.next, kind); err != nil {
		return err
	}

	if !t.startTurn() {
		return nil
	}

	ev := dungeon.HeroEvent{}
	if t.class.useAbility(t.next, &ev) {
		t.log.HeroEvent = ev
		return t.counters()
	}
	t.log.HeroEvent = ev
	return nil
}

func (t *turn) useItem(id dungeon.ItemID) error {
	restored, err := useItem(t.next, id)
	if err != nil {
		return err
	}
	t.log.HeroEvent = dungeon.HeroEvent{Kind: dungeon.HeroUseItem, Item: id, Amount: restored}
	return nil
}

func (t *turn) equipItem(id dungeon.ItemID) error {
	bonus, err := equipItem(t.next, id, t.resolver.rules)
	if err != nil {
		return err
	}
	t.log.HeroEvent = dungeon.HeroEvent{Kind: dungeon.HeroEquipItem, Item: id, Amount: bonus}
	return nil
}

// finish advances the round, evaluates terminal conditions and records the
// log on the state.
func (t *turn) finish() (*dungeon.State, *dungeon.CombatLog, error) {
	s := t.next
	s.TurnRound++
	t.log.Round = s.TurnRound

	switch {
	case s.HeroHP <= 0:
		s.HeroHP = 0
		s.Defeated = true
		t.log.Terminal = dungeon.TerminalDefeated
	case s.Boss.State == dungeon.BossReady && s.Boss.HP <= 0:
		s.Boss.State = dungeon.BossDefeated
		s.Victory = true
		t.log.Terminal = dungeon.TerminalVictory
	case s.Boss.State == dungeon.BossPending && s.LivingMonsters() == 0:
		s.Boss.State = dungeon.BossReady
		t.log.BossReady = true
	}

	s.Record(t.log)
	return s, t.log, nil
}

// openTreasure is the only command accepted after victory
func (r *Resolver) openTreasure(s *dungeon.State) (*dungeon.State, *dungeon.CombatLog, error) {
	switch {
	case s.Defeated:
		return nil, nil, errors.GameOver(gameOverMessage(s))
	case !s.Victory:
		return nil, nil, errors.ItemUnavailablef("the treasure stays locked until the boss falls")
	case s.TreasureOpened:
		return nil, nil, errors.ItemUnavailablef("the treasure has already been opened")
	}

	item, err := rollBossDrop(r.roller)
	if err != nil {
		return nil, nil, err
	}

	next := s.Clone()
	next.Treasure = item
	next.TreasureOpened = true
	next.TurnRound++

	log := &dungeon.CombatLog{
		Round:       next.TurnRound,
		HeroEvent:   dungeon.HeroEvent{Kind: dungeon.HeroOpenTreasure, Item: item},
		EnemyEvents: []dungeon.EnemyEvent{},
		LootDropped: item,
		Terminal:    dungeon.TerminalVictory,
	}
	next.Record(log)
	return next, log, nil
}
