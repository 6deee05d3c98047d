package dto

import "time"

type CreateTeamRequest struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	Avatar       *string  `json:"avatar,omitempty"`
	Members      []string `json:"members,omitempty"`
	Color        *string  `json:"color,omitempty"`
	InitialScore int      `json:"initial_score,omitempty"`
}

type UpdateTeamRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Avatar      *string  `json:"avatar,omitempty"`
	Members     []string `json:"members,omitempty"`
	Color       *string  `json:"color,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// UpdateScoreRequest drives the score mutation endpoint. Operation is one
// of "add", "subtract" or "set"; Points is the delta for add/subtract and
// the absolute value for set.
type UpdateScoreRequest struct {
	Points      int    `json:"points"`
	Operation   string `json:"operation"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
}

type CreateChallengeRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Difficulty  string     `json:"difficulty"`
	Category    string     `json:"category"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type UpdateChallengeRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Points      *int       `json:"points,omitempty"`
	Difficulty  *string    `json:"difficulty,omitempty"`
	Category    *string    `json:"category,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type CompleteChallengeRequest struct {
	TeamID      string `json:"team_id"`
	Description string `json:"description,omitempty"`
}
