package dungeon

import "github.com/KirkDiggler/rpg-toolkit/core"

// Domain event types published on the event bus
const (
	EventCreated         = "dungeon.created"
	EventLoaded          = "dungeon.loaded"
	EventTurnResolved    = "dungeon.turn_resolved"
	EventCommandRejected = "dungeon.command_rejected"
	EventDeleted         = "dungeon.deleted"
)

// EntityType is the toolkit entity type of a dungeon
const EntityType = "dungeon"

// Event is the payload carried by every dungeon domain event. State points
// at a committed state and must be treated as read-only.
type Event struct {
	Type      string     `json:"type"`
	Namespace string     `json:"namespace"`
	Name      string     `json:"name"`
	State     *State     `json:"state,omitempty"`
	Command   *Command   `json:"command,omitempty"`
	Log       *CombatLog `json:"log,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

var _ core.Entity = (*Event)(nil)

// GetID returns namespace/name
func (e *Event) GetID() string {
	return e.Namespace + "/" + e.Name
}

// GetType returns the dungeon entity type
func (e *Event) GetType() string {
	return EntityType
}
