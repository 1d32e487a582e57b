package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideLoadsAndPopulates(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	loads := 0
	var got cachedUser
	load := func() error {
		loads++
		got = cachedUser{ID: 1, Username: "ada"}
		return nil
	}

	assert.NoError(t, Aside(ctx, UserKey(1), &got, UserTTL, load))
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists(UserKey(1)))

	// Second call is served from the cache.
	var again cachedUser
	assert.NoError(t, Aside(ctx, UserKey(1), &again, UserTTL, func() error {
		loads++
		return nil
	}))
	assert.Equal(t, 1, loads)
	assert.Equal(t, "ada", again.Username)
}

func TestAsideNilClientFallsThrough(t *testing.T) {
	SetClient(nil)

	loads := 0
	var got cachedUser
	err := Aside(context.Background(), UserKey(2), &got, time.Minute, func() error {
		loads++
		got = cachedUser{ID: 2, Username: "bob"}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, "bob", got.Username)
}

func TestAsideCorruptEntryReloads(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	assert.NoError(t, mr.Set(UserKey(3), "not-json"))

	var got cachedUser
	err := Aside(ctx, UserKey(3), &got, time.Minute, func() error {
		got = cachedUser{ID: 3, Username: "carol"}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "carol", got.Username)
}

func TestInvalidate(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	var got cachedUser
	assert.NoError(t, Aside(ctx, UserKey(4), &got, time.Minute, func() error {
		got = cachedUser{ID: 4}
		return nil
	}))
	assert.True(t, mr.Exists(UserKey(4)))

	InvalidateUser(ctx, 4)
	assert.False(t, mr.Exists(UserKey(4)))
}
