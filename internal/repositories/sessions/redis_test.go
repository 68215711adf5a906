package sessions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/sessions"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

func TestRedisListPrunesStaleIndex(t *testing.T) {
	client, mr, cleanup := testutils.CreateTestRedisServer(t)
	defer cleanup()

	repo, err := sessions.NewRedis(&sessions.RedisConfig{Client: client})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Save(ctx, &sessions.SaveInput{State: testState("default", "crypt")})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &sessions.SaveInput{State: testState("default", "tower")})
	require.NoError(t, err)

	// expire the state behind the index's back
	mr.Del("dungeon:default:tower")

	out, err := repo.List(ctx, &sessions.ListInput{Namespace: "default"})
	require.NoError(t, err)
	require.Len(t, out.States, 1)
	require.Equal(t, "crypt", out.States[0].Name)

	members, err := mr.SMembers("dungeon-index:default")
	require.NoError(t, err)
	require.Equal(t, []string{"crypt"}, members)
}

func TestRedisCorruptState(t *testing.T) {
	client, mr, cleanup := testutils.CreateTestRedisServer(t)
	defer cleanup()

	repo, err := sessions.NewRedis(&sessions.RedisConfig{Client: client})
	require.NoError(t, err)

	require.NoError(t, mr.Set("dungeon:default:crypt", "{not json"))

	_, err = repo.Get(context.Background(), &sessions.GetInput{Namespace: "default", Name: "crypt"})
	require.Error(t, err)
	require.True(t, errors.IsInternal(err))
}

func TestNewRedisRequiresClient(t *testing.T) {
	_, err := sessions.NewRedis(&sessions.RedisConfig{})
	require.Error(t, err)

	_, err = sessions.NewRedis(nil)
	require.Error(t, err)
}

func TestRedisKeysDoNotCollide(t *testing.T) {
	client, mr, cleanup := testutils.CreateTestRedisServer(t)
	defer cleanup()

	repo, err := sessions.NewRedis(&sessions.RedisConfig{Client: client})
	require.NoError(t, err)
	ctx := context.Background()

	// a dungeon named after the old index prefix lives beside namespace "default"
	_, err = repo.Save(ctx, &sessions.SaveInput{State: testState("default", "crypt")})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &sessions.SaveInput{State: testState("namespace", "default")})
	require.NoError(t, err)

	out, err := repo.List(ctx, &sessions.ListInput{Namespace: "default"})
	require.NoError(t, err)
	require.Len(t, out.States, 1)
	require.Equal(t, "crypt", out.States[0].Name)

	got, err := repo.Get(ctx, &sessions.GetInput{Namespace: "namespace", Name: "default"})
	require.NoError(t, err)
	require.Equal(t, "namespace", got.State.Namespace)
	require.True(t, mr.Exists("dungeon-index:namespace"))

	// separators inside a part would alias another dungeon's key
	for _, st := range []*dungeon.State{testState("a:b", "c"), testState("a", "b:c")} {
		_, err := repo.Save(ctx, &sessions.SaveInput{State: st})
		require.Error(t, err)
		require.True(t, errors.IsInvalidArgument(err))
	}
	require.False(t, mr.Exists("dungeon:a:b:c"))

	_, err = repo.Get(ctx, &sessions.GetInput{Namespace: "a", Name: "b:c"})
	require.True(t, errors.IsInvalidArgument(err))
}
