package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub(8)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(CommandExecuted, map[string]string{"command": "help"})

	select {
	case ev := <-ch:
		assert.Equal(t, int64(1), ev.ID)
		assert.Equal(t, CommandExecuted, ev.Type)
		var data map[string]string
		require.NoError(t, json.Unmarshal(ev.Data, &data))
		assert.Equal(t, "help", data["command"])
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}
}

func TestHubNilDataIsEmptyObject(t *testing.T) {
	h := NewHub(2)
	h.Publish(CacheInvalidated, nil)
	evs := h.Since(0)
	require.Len(t, evs, 1)
	assert.JSONEq(t, `{}`, string(evs[0].Data))
}

func TestHubSinceDropsOldest(t *testing.T) {
	h := NewHub(3)
	for range 5 {
		h.Publish(CacheRefreshed, nil)
	}

	all := h.Since(0)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{all[0].ID, all[1].ID, all[2].ID})

	after := h.Since(4)
	require.Len(t, after, 1)
	assert.Equal(t, int64(5), after[0].ID)
}

func TestHubCancelClosesChannelOnce(t *testing.T) {
	h := NewHub(2)
	ch, cancel := h.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic on a closed channel.
	h.Publish(CacheRefreshed, nil)
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(4)
	_, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for range 200 {
			h.Publish(CommandExecuted, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
