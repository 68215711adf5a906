package sessions

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type key struct {
	namespace string
	name      string
}

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[key]*dungeon.State
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[key]*dungeon.State),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Save stores a copy of the state
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	if err := validateKey(input.State.Namespace, input.State.Name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[key{input.State.Namespace, input.State.Name}] = input.State.Clone()
	return &SaveOutput{}, nil
}

// Get returns a copy of the stored state
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.Namespace, input.Name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	st, exists := r.store[key{input.Namespace, input.Name}]
	if !exists {
		return nil, errors.SessionNotFound(input.Namespace, input.Name)
	}

	return &GetOutput{State: st.Clone()}, nil
}

// Delete removes a state
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.Namespace, input.Name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{input.Namespace, input.Name}
	if _, exists := r.store[k]; !exists {
		return nil, errors.SessionNotFound(input.Namespace, input.Name)
	}
	delete(r.store, k)

	return &DeleteOutput{}, nil
}

// List returns copies of the stored states
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]*dungeon.State, 0, len(r.store))
	for k, st := range r.store {
		if input.Namespace != "" && k.namespace != input.Namespace {
			continue
		}
		states = append(states, st.Clone())
	}
	sortStates(states)

	return &ListOutput{States: states}, nil
}
