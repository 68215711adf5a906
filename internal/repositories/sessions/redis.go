package sessions

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-dungeon/internal/redis"
)

const (
	// Key pattern: dungeon:{namespace}:{name}
	stateKeyPrefix = "dungeon:"
	// Set of names per namespace: dungeon-index:{namespace}
	namespaceIndexPrefix = "dungeon-index:"
	// Set of every namespace that holds a dungeon
	namespacesKey = "dungeon-namespaces"

	// Error messages
	errStateNil       = "state cannot be nil"
	errNamespaceEmpty = "namespace cannot be empty"
	errNameEmpty      = "name cannot be empty"
	errNameInvalid    = "must be a lowercase DNS label"
)

// RedisConfig contains configuration for the Redis session repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// validateKey keeps both parts free of the key separator
func validateKey(namespace, name string) error {
	switch {
	case namespace == "":
		return errors.InvalidArgument(errNamespaceEmpty)
	case name == "":
		return errors.InvalidArgument(errNameEmpty)
	case !dungeon.ValidName(namespace):
		return errors.InvalidArgumentf("namespace %q %s", namespace, errNameInvalid)
	case !dungeon.ValidName(name):
		return errors.InvalidArgumentf("name %q %s", name, errNameInvalid)
	}
	return nil
}

func stateKey(namespace, name string) string {
	return stateKeyPrefix + namespace + ":" + name
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	ns, name := input.State.Namespace, input.State.Name
	if err := validateKey(ns, name); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dungeon state")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, stateKey(ns, name), data, 0)
	pipe.SAdd(ctx, namespaceIndexPrefix+ns, name)
	pipe.SAdd(ctx, namespacesKey, ns)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save dungeon %s/%s", ns, name)
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.Namespace, input.Name); err != nil {
		return nil, err
	}

	result, err := r.client.Get(ctx, stateKey(input.Namespace, input.Name)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.SessionNotFound(input.Namespace, input.Name)
		}
		return nil, errors.Wrapf(err, "failed to get dungeon")
	}

	var st dungeon.State
	if err := json.Unmarshal([]byte(result), &st); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal dungeon state")
	}

	return &GetOutput{State: &st}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.Namespace, input.Name); err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, stateKey(input.Namespace, input.Name))
	pipe.SRem(ctx, namespaceIndexPrefix+input.Namespace, input.Name)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete dungeon %s/%s", input.Namespace, input.Name)
	}
	if del.Val() == 0 {
		return nil, errors.SessionNotFound(input.Namespace, input.Name)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	namespaces := []string{input.Namespace}
	if input.Namespace == "" {
		var err error
		namespaces, err = r.client.SMembers(ctx, namespacesKey).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list namespaces")
		}
	}

	states := make([]*dungeon.State, 0)
	for _, ns := range namespaces {
		found, err := r.listNamespace(ctx, ns)
		if err != nil {
			return nil, err
		}
		states = append(states, found...)
	}
	sortStates(states)

	slog.DebugContext(ctx, "listed dungeons",
		"namespace", input.Namespace,
		"count", len(states))

	return &ListOutput{States: states}, nil
}

// listNamespace loads every dungeon of one namespace index, pruning names
// whose state has gone.
func (r *redisRepository) listNamespace(ctx context.Context, namespace string) ([]*dungeon.State, error) {
	indexKey := namespaceIndexPrefix + namespace

	names, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get dungeons from index %s", indexKey)
	}

	states := make([]*dungeon.State, 0, len(names))
	for _, name := range names {
		out, err := r.Get(ctx, &GetInput{Namespace: namespace, Name: name})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "dungeon not found, cleaning up index",
					"namespace", namespace,
					"dungeon", name,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, name)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get dungeon %s/%s", namespace, name)
		}
		states = append(states, out.State)
	}

	return states, nil
}
