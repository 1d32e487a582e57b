package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(1, nil)
	assert.NoError(t, err)
	assert.True(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(2))

	hub.Broadcast(1, `{"type":"post_like"}`)

	select {
	case msg := <-client.Send:
		assert.JSONEq(t, `{"type":"post_like"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("expected broadcast message")
	}

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(1))
}

func TestHubPerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		assert.NoError(t, err)
	}

	_, err := hub.Register(1, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(2, nil)
	assert.NoError(t, err)
}

func TestNotifierPublishAndSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	err := notifier.StartPatternSubscriber(ctx, func(channel, payload string) {
		received <- channel + "|" + payload
	})
	assert.NoError(t, err)

	// Subscription setup races with the first publish against miniredis.
	time.Sleep(50 * time.Millisecond)

	assert.NoError(t, notifier.PublishUser(ctx, 42, `{"type":"friend_request"}`))

	select {
	case got := <-received:
		assert.Equal(t, UserChannel(42)+`|{"type":"friend_request"}`, got)
	case <-time.After(2 * time.Second):
		t.Fatal("expected published message")
	}
}

func TestNotifierNilClientIsNoOp(t *testing.T) {
	notifier := NewNotifier(nil)
	assert.NoError(t, notifier.PublishUser(context.Background(), 1, "x"))
	assert.NoError(t, notifier.PublishBroadcast(context.Background(), "x"))
	assert.NoError(t, notifier.StartPatternSubscriber(context.Background(), nil))
}
