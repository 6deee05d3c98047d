package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event names mirror what leaderboard clients subscribe to.
const (
	EventTeamUpdated        = "team_updated"
	EventLeaderboardUpdated = "leaderboard_updated"
	EventChallengeCompleted = "challenge_completed"
	EventScoresReset        = "scores_reset"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Client struct {
	ID   string
	Send chan []byte
}

// Hub fans leaderboard events out to every connected client. There is a
// single stream; all clients see all events.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(event)
			for _, client := range h.clients {
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}

type TeamUpdatedEvent struct {
	TeamID uuid.UUID `json:"team_id"`
	Name   string    `json:"name"`
	Score  int       `json:"score"`
}

type ChallengeCompletedEvent struct {
	TeamID      uuid.UUID `json:"team_id"`
	TeamName    string    `json:"team_name"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	Points      int       `json:"points"`
}

func (h *Hub) BroadcastTeamUpdated(teamID uuid.UUID, name string, score int) {
	h.Broadcast(Event{
		Type: EventTeamUpdated,
		Data: TeamUpdatedEvent{TeamID: teamID, Name: name, Score: score},
	})
}

// BroadcastLeaderboardUpdated pushes the current standings; data is
// whatever the caller wants clients to re-render from, typically the
// full leaderboard payload.
func (h *Hub) BroadcastLeaderboardUpdated(data any) {
	h.Broadcast(Event{Type: EventLeaderboardUpdated, Data: data})
}

func (h *Hub) BroadcastChallengeCompleted(teamID uuid.UUID, teamName string, challengeID uuid.UUID, points int) {
	h.Broadcast(Event{
		Type: EventChallengeCompleted,
		Data: ChallengeCompletedEvent{
			TeamID:      teamID,
			TeamName:    teamName,
			ChallengeID: challengeID,
			Points:      points,
		},
	})
}

func (h *Hub) BroadcastScoresReset() {
	h.Broadcast(Event{Type: EventScoresReset, Data: nil})
}
