package dungeon

import "slices"

// Monster is one entry of the monster roster. Its index is its identity.
type Monster struct {
	HP    int  `json:"hp"`
	MaxHP int  `json:"max_hp"`
	Alive bool `json:"alive"`
}

// Boss is the final enemy, attackable once every monster is dead
type Boss struct {
	HP    int       `json:"hp"`
	MaxHP int       `json:"max_hp"`
	State BossState `json:"state"`
}

// StatusEffects holds the remaining turns of each effect
type StatusEffects struct {
	PoisonTurns int `json:"poison_turns"`
	BurnTurns   int `json:"burn_turns"`
	StunTurns   int `json:"stun_turns"`
}

// Equipment is what the hero currently wears
type Equipment struct {
	WeaponBonus int    `json:"weapon_bonus"`
	WeaponUses  int    `json:"weapon_uses"` // -1 is unlimited
	Weapon      ItemID `json:"weapon,omitempty"`
	ArmorBonus  int    `json:"armor_bonus"` // percent of counter damage removed
	Armor       ItemID `json:"armor,omitempty"`
}

// State is the authoritative combat state of one dungeon
type State struct {
	Namespace  string     `json:"namespace"`
	Name       string     `json:"name"`
	Difficulty Difficulty `json:"difficulty"`
	HeroClass  HeroClass  `json:"hero_class"`

	HeroHP           int `json:"hero_hp"`
	MaxHeroHP        int `json:"max_hero_hp"`
	HeroMana         int `json:"hero_mana"`
	BackstabCooldown int `json:"backstab_cooldown"`
	TauntActive      int `json:"taunt_active"`

	Monsters []Monster `json:"monsters"`
	Boss     Boss      `json:"boss"`

	Modifier      Modifier      `json:"modifier"`
	StatusEffects StatusEffects `json:"status_effects"`
	Equipment     Equipment     `json:"equipment"`
	Inventory     []ItemID      `json:"inventory"`

	Treasure       ItemID `json:"treasure,omitempty"`
	TreasureOpened bool   `json:"treasure_opened"`
	Victory        bool   `json:"victory"`
	Defeated       bool   `json:"defeated"`
	TurnRound      int    `json:"turn_round"`

	LastHeroAction  *HeroEvent   `json:"last_hero_action,omitempty"`
	LastEnemyAction []EnemyEvent `json:"last_enemy_action,omitempty"`
}

// IsOver reports whether a terminal condition has fired
func (s *State) IsOver() bool {
	return s.Victory || s.Defeated
}

// LivingMonsters counts monsters with hp above zero
func (s *State) LivingMonsters() int {
	n := 0
	for _, m := range s.Monsters {
		if m.Alive {
			n++
		}
	}
	return n
}

// HasItem reports whether the inventory holds at least one id
func (s *State) HasItem(id ItemID) bool {
	return slices.Contains(s.Inventory, id)
}

// RemoveItem takes one copy of id out of the inventory
func (s *State) RemoveItem(id ItemID) bool {
	i := slices.Index(s.Inventory, id)
	if i < 0 {
		return false
	}
	s.Inventory = slices.Delete(s.Inventory, i, i+1)
	return true
}

// Clone returns a deep copy that shares no slices or pointers with s
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := *s
	out.Monsters = slices.Clone(s.Monsters)
	out.Inventory = slices.Clone(s.Inventory)
	if s.LastHeroAction != nil {
		hero := s.LastHeroAction.clone()
		out.LastHeroAction = &hero
	}
	if s.LastEnemyAction != nil {
		out.LastEnemyAction = make([]EnemyEvent, len(s.LastEnemyAction))
		for i, e := range s.LastEnemyAction {
			out.LastEnemyAction[i] = e.clone()
		}
	}
	return &out
}

// Record stores a copy of the log's events as the last actions
func (s *State) Record(log *CombatLog) {
	hero := log.HeroEvent.clone()
	s.LastHeroAction = &hero
	s.LastEnemyAction = nil
	if log.EnemyEvents != nil {
		s.LastEnemyAction = make([]EnemyEvent, len(log.EnemyEvents))
		for i, e := range log.EnemyEvents {
			s.LastEnemyAction[i] = e.clone()
		}
	}
}
