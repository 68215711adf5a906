// Package session implements the dungeon session registry. It owns one
// committed state per (namespace, name) and resolves at most one command
// per dungeon at a time.
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session Service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/sessions"
)

const (
	// DefaultNamespace is used when a request leaves the namespace empty
	DefaultNamespace = "default"
	// DefaultLockTimeout bounds how long Submit waits for a busy dungeon
	DefaultLockTimeout = 2 * time.Second
)

// Service defines the interface for dungeon session operations
type Service interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error)
	Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error)
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)
	DeleteSession(ctx context.Context, input *DeleteSessionInput) (*DeleteSessionOutput, error)
}

// Engine builds and advances dungeon states
type Engine interface {
	NewState(input *combat.NewStateInput) (*dungeon.State, error)
	Resolve(s *dungeon.State, cmd dungeon.Command) (*dungeon.State, *dungeon.CombatLog, error)
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	Engine      Engine
	Clock       clock.Clock
	IDGenerator idgen.Generator

	// Repository is optional. When set, every commit is saved and sessions
	// missing from memory are loaded from it.
	Repository sessions.Repository
	// EventBus is optional. Commits, rejections and deletes are published on it.
	EventBus events.EventBus

	// LockTimeout bounds the wait for a busy dungeon. Zero uses DefaultLockTimeout.
	LockTimeout time.Duration
	// MinCommandInterval rejects commands that follow the previous accepted
	// command of the same dungeon too closely. Zero disables the limit.
	MinCommandInterval time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.LockTimeout < 0 {
		vb.InvalidField("LockTimeout", "must not be negative")
	}
	if c.MinCommandInterval < 0 {
		vb.InvalidField("MinCommandInterval", "must not be negative")
	}

	return vb.Build()
}

type key struct {
	namespace string
	name      string
}

// entry is one dungeon. sem is a one-slot semaphore held for the whole
// resolution; state is swapped only while sem is held. ready is closed once
// the entry has its first state or has been dropped.
type entry struct {
	key         key
	sem         chan struct{}
	ready       chan struct{}
	state       atomic.Pointer[dungeon.State]
	deleted     atomic.Bool
	lastCommand time.Time // guarded by sem
}

// newEntry returns an entry whose semaphore is already held
func newEntry(k key) *entry {
	e := &entry{key: k, sem: make(chan struct{}, 1), ready: make(chan struct{})}
	e.sem <- struct{}{}
	return e
}

func (e *entry) release() {
	<-e.sem
}

// open marks a claimed entry ready and releases its semaphore
func (e *entry) open() {
	close(e.ready)
	e.release()
}

type orchestrator struct {
	engine      Engine
	clock       clock.Clock
	idGen       idgen.Generator
	repo        sessions.Repository
	bus         events.EventBus
	lockTimeout time.Duration
	minInterval time.Duration

	mu       sync.RWMutex
	sessions map[key]*entry
}

// NewOrchestrator creates a new session orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	lockTimeout := cfg.LockTimeout
	if lockTimeout == 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &orchestrator{
		engine:      cfg.Engine,
		clock:       cfg.Clock,
		idGen:       cfg.IDGenerator,
		repo:        cfg.Repository,
		bus:         cfg.EventBus,
		lockTimeout: lockTimeout,
		minInterval: cfg.MinCommandInterval,
		sessions:    make(map[key]*entry),
	}, nil
}

func namespaceOf(ns string) string {
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

func (o *orchestrator) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	k := key{namespaceOf(input.Namespace), input.Name}
	if err := validateKey(k); err != nil {
		return nil, err
	}

	st, err := o.engine.NewState(&combat.NewStateInput{
		Namespace:  k.namespace,
		Name:       k.name,
		Difficulty: input.Difficulty,
		HeroClass:  input.HeroClass,
		Monsters:   input.Monsters,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dungeon")
	}

	// The claimed entry stays unready until the snapshot is saved, so
	// neither commands nor snapshots see a dungeon that may be rolled back.
	e, fresh := o.claim(k)
	if !fresh {
		return nil, errors.SessionExists(k.namespace, k.name)
	}

	if o.repo != nil {
		_, err := o.repo.Get(ctx, &sessions.GetInput{Namespace: k.namespace, Name: k.name})
		switch {
		case err == nil:
			o.drop(e)
			return nil, errors.SessionExists(k.namespace, k.name)
		case !errors.IsNotFound(err):
			o.drop(e)
			return nil, errors.Wrap(err, "failed to check for existing dungeon")
		}
	}

	if err := o.save(ctx, st); err != nil {
		o.drop(e)
		return nil, err
	}
	e.state.Store(st)
	e.open()

	slog.Info("Dungeon created",
		"namespace", k.namespace,
		"dungeon", k.name,
		"difficulty", st.Difficulty,
		"hero_class", st.HeroClass,
		"monsters", len(st.Monsters),
		"modifier", st.Modifier)

	o.publish(ctx, &dungeon.Event{Type: dungeon.EventCreated, Namespace: k.namespace, Name: k.name, State: st})

	return &CreateSessionOutput{State: st.Clone()}, nil
}

func (o *orchestrator) Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	k := key{namespaceOf(input.Namespace), input.Name}

	e, err := o.lookup(ctx, k)
	if err != nil {
		return nil, err
	}

	if err := o.acquire(ctx, e); err != nil {
		return nil, err
	}
	defer e.release()

	if e.deleted.Load() {
		return nil, errors.SessionNotFound(k.namespace, k.name)
	}

	now := o.clock.Now()
	if o.minInterval > 0 && !e.lastCommand.IsZero() && now.Sub(e.lastCommand) < o.minInterval {
		err := errors.RateLimited(k.namespace, k.name)
		o.reject(ctx, k, input.Command, err)
		return nil, err
	}

	next, log, err := o.engine.Resolve(e.state.Load(), input.Command)
	if err != nil {
		o.reject(ctx, k, input.Command, err)
		return nil, err
	}
	log.TurnID = o.idGen.Generate()

	if err := o.save(ctx, next); err != nil {
		return nil, err
	}
	e.state.Store(next)
	e.lastCommand = now

	slog.Info("Turn resolved",
		"namespace", k.namespace,
		"dungeon", k.name,
		"command", input.Command.Kind,
		"round", log.Round,
		"hero_event", log.HeroEvent.Kind,
		"amount", log.HeroEvent.Amount,
		"counters", len(log.EnemyEvents),
		"terminal", log.Terminal)

	cmd := input.Command
	o.publish(ctx, &dungeon.Event{
		Type:      dungeon.EventTurnResolved,
		Namespace: k.namespace,
		Name:      k.name,
		State:     next,
		Command:   &cmd,
		Log:       log,
	})

	return &SubmitOutput{State: next.Clone(), Log: log}, nil
}

func (o *orchestrator) Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	k := key{namespaceOf(input.Namespace), input.Name}

	e, err := o.lookup(ctx, k)
	if err != nil {
		return nil, err
	}

	return &SnapshotOutput{State: e.state.Load().Clone()}, nil
}

func (o *orchestrator) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	states := make(map[key]*dungeon.State)
	if o.repo != nil {
		out, err := o.repo.List(ctx, &sessions.ListInput{Namespace: input.Namespace})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list dungeons")
		}
		for _, st := range out.States {
			states[key{st.Namespace, st.Name}] = st
		}
	}

	o.mu.RLock()
	for k, e := range o.sessions {
		if input.Namespace != "" && k.namespace != input.Namespace {
			continue
		}
		if st := e.state.Load(); st != nil && !e.deleted.Load() {
			states[k] = st
		}
	}
	o.mu.RUnlock()

	summaries := make([]*Summary, 0, len(states))
	for _, st := range states {
		summaries = append(summaries, summarize(st))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Namespace != summaries[j].Namespace {
			return summaries[i].Namespace < summaries[j].Namespace
		}
		return summaries[i].Name < summaries[j].Name
	})

	return &ListSessionsOutput{Sessions: summaries}, nil
}

func (o *orchestrator) DeleteSession(ctx context.Context, input *DeleteSessionInput) (*DeleteSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	k := key{namespaceOf(input.Namespace), input.Name}
	if err := validateKey(k); err != nil {
		return nil, err
	}

	// A dungeon known only to the repository is claimed for the length of
	// the delete so a concurrent load cannot bring it back.
	var (
		e     *entry
		fresh bool
	)
	if o.repo != nil {
		e, fresh = o.claim(k)
	} else {
		o.mu.RLock()
		e = o.sessions[k]
		o.mu.RUnlock()
	}

	switch {
	case e == nil:
		slog.Debug("Delete of unknown dungeon", "namespace", k.namespace, "dungeon", k.name)
		return nil, errors.SessionNotFound(k.namespace, k.name)
	case fresh:
		defer o.drop(e)
	default:
		if err := o.await(ctx, e); err != nil {
			return nil, err
		}
		if err := o.acquire(ctx, e); err != nil {
			return nil, err
		}
		defer e.release()
		if e.deleted.Load() {
			return nil, errors.SessionNotFound(k.namespace, k.name)
		}
	}

	found := !fresh
	if o.repo != nil {
		_, err := o.repo.Delete(ctx, &sessions.DeleteInput{Namespace: k.namespace, Name: k.name})
		switch {
		case err == nil:
			found = true
		case !errors.IsNotFound(err):
			return nil, errors.Wrap(err, "failed to delete dungeon")
		}
	}

	if !found {
		slog.Debug("Delete of unknown dungeon", "namespace", k.namespace, "dungeon", k.name)
		return nil, errors.SessionNotFound(k.namespace, k.name)
	}
	if !fresh {
		o.remove(e)
	}

	slog.Info("Dungeon deleted", "namespace", k.namespace, "dungeon", k.name)
	o.publish(ctx, &dungeon.Event{Type: dungeon.EventDeleted, Namespace: k.namespace, Name: k.name})

	return &DeleteSessionOutput{}, nil
}

func validateKey(k key) error {
	vb := errors.NewValidationBuilder()
	if !dungeon.ValidName(k.namespace) {
		vb.InvalidField("namespace", "must be a lowercase DNS label")
	}
	switch {
	case k.name == "":
		vb.RequiredField("name")
	case !dungeon.ValidName(k.name):
		vb.InvalidField("name", "must be a lowercase DNS label")
	}
	return vb.Build()
}

// claim returns the registered entry of k, or registers a new held one
// and reports it as fresh. A fresh entry must be opened or dropped.
func (o *orchestrator) claim(k key) (*entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if e, ok := o.sessions[k]; ok {
		return e, false
	}
	e := newEntry(k)
	o.sessions[k] = e
	return e, true
}

// drop unregisters a claimed entry that never became ready
func (o *orchestrator) drop(e *entry) {
	o.remove(e)
	e.open()
}

// await waits for a claimed entry to become ready, bounded like acquire
func (o *orchestrator) await(ctx context.Context, e *entry) error {
	select {
	case <-e.ready:
		return nil
	default:
	}

	timer := time.NewTimer(o.lockTimeout)
	defer timer.Stop()

	select {
	case <-e.ready:
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}

	slog.Warn("Dungeon busy", "namespace", e.key.namespace, "dungeon", e.key.name, "waited", o.lockTimeout)
	return errors.SessionBusy(e.key.namespace, e.key.name)
}

// lookup returns the ready in-memory entry of a dungeon, loading it from
// the repository on a miss. Loads run under a claimed entry so they
// serialize with creates and deletes of the same key.
func (o *orchestrator) lookup(ctx context.Context, k key) (*entry, error) {
	if err := validateKey(k); err != nil {
		return nil, err
	}

	var (
		e     *entry
		fresh bool
	)
	if o.repo != nil {
		e, fresh = o.claim(k)
	} else {
		o.mu.RLock()
		e = o.sessions[k]
		o.mu.RUnlock()
	}

	switch {
	case e == nil:
		slog.Debug("Dungeon not found", "namespace", k.namespace, "dungeon", k.name)
		return nil, errors.SessionNotFound(k.namespace, k.name)
	case !fresh:
		if err := o.await(ctx, e); err != nil {
			return nil, err
		}
		if e.deleted.Load() {
			return nil, errors.SessionNotFound(k.namespace, k.name)
		}
		return e, nil
	}

	out, err := o.repo.Get(ctx, &sessions.GetInput{Namespace: k.namespace, Name: k.name})
	if err != nil {
		o.drop(e)
		if errors.IsNotFound(err) {
			slog.Debug("Dungeon not found", "namespace", k.namespace, "dungeon", k.name)
			return nil, errors.SessionNotFound(k.namespace, k.name)
		}
		return nil, errors.Wrap(err, "failed to load dungeon")
	}
	e.state.Store(out.State)
	e.open()

	slog.Info("Dungeon loaded from repository", "namespace", k.namespace, "dungeon", k.name, "round", out.State.TurnRound)
	o.publish(ctx, &dungeon.Event{Type: dungeon.EventLoaded, Namespace: k.namespace, Name: k.name, State: out.State})

	return e, nil
}

// acquire takes the dungeon semaphore, waiting at most the lock timeout
func (o *orchestrator) acquire(ctx context.Context, e *entry) error {
	select {
	case e.sem <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(o.lockTimeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}

	slog.Warn("Dungeon busy", "namespace", e.key.namespace, "dungeon", e.key.name, "waited", o.lockTimeout)
	return errors.SessionBusy(e.key.namespace, e.key.name)
}

// remove drops an entry from the registry. The caller holds its semaphore.
func (o *orchestrator) remove(e *entry) {
	e.deleted.Store(true)

	o.mu.Lock()
	if o.sessions[e.key] == e {
		delete(o.sessions, e.key)
	}
	o.mu.Unlock()
}

func (o *orchestrator) save(ctx context.Context, st *dungeon.State) error {
	if o.repo == nil {
		return nil
	}
	if _, err := o.repo.Save(ctx, &sessions.SaveInput{State: st}); err != nil {
		slog.Error("Failed to save dungeon",
			"namespace", st.Namespace,
			"dungeon", st.Name,
			"error", err)
		return errors.Wrap(err, "failed to save dungeon")
	}
	return nil
}

func (o *orchestrator) reject(ctx context.Context, k key, cmd dungeon.Command, err error) {
	reason := errors.GetReason(err).String()
	if reason == "" {
		reason = string(errors.GetCode(err))
	}

	slog.Debug("Command rejected",
		"namespace", k.namespace,
		"dungeon", k.name,
		"command", cmd.Kind,
		"reason", reason,
		"error", err)

	o.publish(ctx, &dungeon.Event{
		Type:      dungeon.EventCommandRejected,
		Namespace: k.namespace,
		Name:      k.name,
		Command:   &cmd,
		Reason:    reason,
	})
}

func (o *orchestrator) publish(ctx context.Context, ev *dungeon.Event) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(ctx, events.NewGameEvent(ev.Type, ev, nil)); err != nil {
		slog.Warn("Failed to publish dungeon event",
			"type", ev.Type,
			"namespace", ev.Namespace,
			"dungeon", ev.Name,
			"error", err)
	}
}
