package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/velvetlane/storefront/cart/pkg/store"
)

func setupRedis(t *testing.T, c context.Context) (*redis.Client, *Redis) {
	t.Helper()

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := redisContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed terminating redis container with error: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	return redisClient, NewRedis(redisClient)
}

func TestRedisRoundTrip(t *testing.T) {
	c := context.Background()
	_, repo := setupRedis(t, c)

	state, _ := store.AddItem(store.State{}, store.Line{Slug: "linen-shirt", Size: "M", Color: "white", ProductID: 7})
	state, _ = store.AddItem(state, store.Line{Slug: "wool-coat", Size: "L", ProductID: 9})
	require.NoError(t, repo.Save(c, "session-1", state))

	loaded, err := repo.Load(c, "session-1")
	require.NoError(t, err)
	assert.Equal(t, state.Lines, loaded.Lines)
}

func TestRedisLoadMissingSessionIsEmpty(t *testing.T) {
	c := context.Background()
	_, repo := setupRedis(t, c)

	loaded, err := repo.Load(c, "never-seen")
	require.NoError(t, err)
	assert.Empty(t, loaded.Lines)
}

func TestRedisCorruptDocumentIsEmpty(t *testing.T) {
	c := context.Background()
	client, repo := setupRedis(t, c)

	require.NoError(t, client.Set(c, fmt.Sprintf(KEY_CARTS, "session-2"), "{not json", 0).Err())
	loaded, err := repo.Load(c, "session-2")
	require.NoError(t, err)
	assert.Empty(t, loaded.Lines)

	require.NoError(t, client.Set(c, fmt.Sprintf(KEY_CARTS, "session-3"), `{"version":99,"lines":[{"slug":"x"}]}`, 0).Err())
	loaded, err = repo.Load(c, "session-3")
	require.NoError(t, err)
	assert.Empty(t, loaded.Lines)
}

func TestRedisDelete(t *testing.T) {
	c := context.Background()
	_, repo := setupRedis(t, c)

	state, _ := store.AddItem(store.State{}, store.Line{Slug: "linen-shirt", Size: "M"})
	require.NoError(t, repo.Save(c, "session-4", state))
	require.NoError(t, repo.Delete(c, "session-4"))

	loaded, err := repo.Load(c, "session-4")
	require.NoError(t, err)
	assert.Empty(t, loaded.Lines)
}
