package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *Client {
	return &Client{ID: id, Send: make(chan []byte, 16)}
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient("a")
	b := newTestClient("b")
	hub.Register(a)
	hub.Register(b)

	teamID := uuid.New()
	hub.BroadcastTeamUpdated(teamID, "Gophers", 150)

	for _, client := range []*Client{a, b} {
		event := receiveEvent(t, client)
		assert.Equal(t, EventTeamUpdated, event.Type)

		payload, ok := event.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, teamID.String(), payload["team_id"])
		assert.Equal(t, "Gophers", payload["name"])
		assert.Equal(t, float64(150), payload["score"])
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("a")
	hub.Register(client)
	hub.Unregister(client)

	// Send channel is closed on unregister
	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	hub.BroadcastScoresReset()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_ChallengeCompletedEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("a")
	hub.Register(client)

	teamID := uuid.New()
	challengeID := uuid.New()
	hub.BroadcastChallengeCompleted(teamID, "Gophers", challengeID, 250)

	event := receiveEvent(t, client)
	assert.Equal(t, EventChallengeCompleted, event.Type)

	payload, ok := event.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, challengeID.String(), payload["challenge_id"])
	assert.Equal(t, float64(250), payload["points"])
}

func TestHub_SlowClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{ID: "slow", Send: make(chan []byte)} // unbuffered, never read
	fast := newTestClient("fast")
	hub.Register(slow)
	hub.Register(fast)

	hub.BroadcastLeaderboardUpdated(nil)

	event := receiveEvent(t, fast)
	assert.Equal(t, EventLeaderboardUpdated, event.Type)
}
