// Package sessions stores snapshots of committed dungeon states so a
// registry can rehydrate sessions it does not hold in memory.
package sessions

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionsmock github.com/KirkDiggler/rpg-dungeon/internal/repositories/sessions Repository

import (
	"context"
	"sort"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

// Repository defines the storage interface for dungeon snapshots
type Repository interface {
	// Save stores or replaces the snapshot of a dungeon
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves a dungeon snapshot by namespace and name
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Delete removes a dungeon snapshot
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// List returns the snapshots of a namespace, or of every namespace when empty
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// SaveInput defines the request for saving a snapshot
type SaveInput struct {
	State *dungeon.State
}

// SaveOutput defines the response for saving a snapshot
type SaveOutput struct{}

// GetInput defines the request for retrieving a snapshot
type GetInput struct {
	Namespace string
	Name      string
}

// GetOutput defines the response for retrieving a snapshot
type GetOutput struct {
	State *dungeon.State
}

// DeleteInput defines the request for deleting a snapshot
type DeleteInput struct {
	Namespace string
	Name      string
}

// DeleteOutput defines the response for deleting a snapshot
type DeleteOutput struct{}

// ListInput defines the request for listing snapshots
type ListInput struct {
	Namespace string
}

// ListOutput defines the response for listing snapshots, sorted by
// namespace then name
type ListOutput struct {
	States []*dungeon.State
}

func sortStates(states []*dungeon.State) {
	sort.Slice(states, func(i, j int) bool {
		if states[i].Namespace != states[j].Namespace {
			return states[i].Namespace < states[j].Namespace
		}
		return states[i].Name < states[j].Name
	})
}
