package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session"
)

// Client is a typed client for the dungeon service. Errors are converted
// back into *errors.Error so callers can check reasons.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps a gRPC connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// CreateDungeon starts a new dungeon
func (c *Client) CreateDungeon(ctx context.Context, input *session.CreateSessionInput) (*dungeon.State, error) {
	req := map[string]any{
		"namespace":  input.Namespace,
		"name":       input.Name,
		"difficulty": string(input.Difficulty),
		"hero_class": string(input.HeroClass),
	}
	if input.Monsters != 0 {
		req["monsters"] = input.Monsters
	}

	resp, err := c.invoke(ctx, CreateDungeonMethod, req)
	if err != nil {
		return nil, err
	}

	var st dungeon.State
	if err := decodeField(resp, "dungeon", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetDungeon returns the committed state of a dungeon
func (c *Client) GetDungeon(ctx context.Context, namespace, name string) (*dungeon.State, error) {
	resp, err := c.invoke(ctx, GetDungeonMethod, map[string]any{"namespace": namespace, "name": name})
	if err != nil {
		return nil, err
	}

	var st dungeon.State
	if err := decodeField(resp, "dungeon", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListDungeons lists dungeon summaries, optionally within one namespace
func (c *Client) ListDungeons(ctx context.Context, namespace string) ([]*session.Summary, error) {
	resp, err := c.invoke(ctx, ListDungeonsMethod, map[string]any{"namespace": namespace})
	if err != nil {
		return nil, err
	}

	var summaries []*session.Summary
	if err := decodeField(resp, "dungeons", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteDungeon removes a dungeon
func (c *Client) DeleteDungeon(ctx context.Context, namespace, name string) error {
	_, err := c.invoke(ctx, DeleteDungeonMethod, map[string]any{"namespace": namespace, "name": name})
	return err
}

// SubmitCommand resolves one command
func (c *Client) SubmitCommand(ctx context.Context, namespace, name string, cmd dungeon.Command) (*dungeon.State, *dungeon.CombatLog, error) {
	cmdValue, err := toValue(cmd)
	if err != nil {
		return nil, nil, err
	}

	req, err := structpb.NewStruct(map[string]any{"namespace": namespace, "name": name})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode request")
	}
	req.Fields["command"] = cmdValue

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, SubmitCommandMethod, req, resp); err != nil {
		return nil, nil, errors.FromGRPCError(err)
	}

	var st dungeon.State
	if err := decodeField(resp, "dungeon", &st); err != nil {
		return nil, nil, err
	}
	var log dungeon.CombatLog
	if err := decodeField(resp, "log", &log); err != nil {
		return nil, nil, err
	}
	return &st, &log, nil
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, errors.FromGRPCError(err)
	}
	return resp, nil
}

func decodeField(resp *structpb.Struct, name string, out any) error {
	val, ok := resp.GetFields()[name]
	if !ok {
		return errors.Internalf("response is missing %s", name)
	}
	return fromValue(val, out)
}
