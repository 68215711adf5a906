package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session"
)

// HandlerConfig holds dependencies for the dungeon handler
type HandlerConfig struct {
	Service session.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.Service == nil {
		return errors.InvalidArgument("session service is required")
	}
	return nil
}

// Handler implements DungeonServiceServer
type Handler struct {
	service session.Service
}

var _ DungeonServiceServer = (*Handler)(nil)

// NewHandler creates a new dungeon handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{service: cfg.Service}, nil
}

// CreateDungeon starts a new dungeon.
// Request: namespace, name, difficulty, hero_class, monsters.
// Response: dungeon.
func (h *Handler) CreateDungeon(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if stringField(req, "name") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}
	monsters, err := intField(req, "monsters")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.CreateSession(ctx, &session.CreateSessionInput{
		Namespace:  stringField(req, "namespace"),
		Name:       stringField(req, "name"),
		Difficulty: dungeon.Difficulty(stringField(req, "difficulty")),
		HeroClass:  dungeon.HeroClass(stringField(req, "hero_class")),
		Monsters:   monsters,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return h.respond(map[string]any{"dungeon": out.State})
}

// GetDungeon returns the committed state of a dungeon.
// Request: namespace, name. Response: dungeon.
func (h *Handler) GetDungeon(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if stringField(req, "name") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}

	out, err := h.service.Snapshot(ctx, &session.SnapshotInput{
		Namespace: stringField(req, "namespace"),
		Name:      stringField(req, "name"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return h.respond(map[string]any{"dungeon": out.State})
}

// ListDungeons lists dungeon summaries.
// Request: namespace (optional). Response: dungeons.
func (h *Handler) ListDungeons(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.service.ListSessions(ctx, &session.ListSessionsInput{
		Namespace: stringField(req, "namespace"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return h.respond(map[string]any{"dungeons": out.Sessions})
}

// DeleteDungeon removes a dungeon.
// Request: namespace, name. Response: empty.
func (h *Handler) DeleteDungeon(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if stringField(req, "name") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}

	_, err := h.service.DeleteSession(ctx, &session.DeleteSessionInput{
		Namespace: stringField(req, "namespace"),
		Name:      stringField(req, "name"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

// SubmitCommand resolves one command.
// Request: namespace, name, command. Response: dungeon, log.
func (h *Handler) SubmitCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if stringField(req, "name") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}
	cmd, err := commandField(req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.Submit(ctx, &session.SubmitInput{
		Namespace: stringField(req, "namespace"),
		Name:      stringField(req, "name"),
		Command:   cmd,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return h.respond(map[string]any{"dungeon": out.State, "log": out.Log})
}

func (h *Handler) respond(fields map[string]any) (*structpb.Struct, error) {
	resp, err := response(fields)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}
