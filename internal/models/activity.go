package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is one immutable ledger entry. Points carry the signed delta
// that was requested, even when the team score clamped at zero.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"team_id"`
	ChallengeID *uuid.UUID `json:"challenge_id,omitempty"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	Points      int        `json:"points"`
	Kind        string     `json:"kind"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`

	// Joined display fields, populated by listing queries.
	TeamName       string  `json:"team_name,omitempty"`
	ChallengeTitle *string `json:"challenge_title,omitempty"`
}

const (
	KindChallengeCompleted = "challenge_completed"
	KindBonus              = "bonus"
	KindPenalty            = "penalty"
	KindManualAdjustment   = "manual_adjustment"
	KindOther              = "other"
)

func ValidKind(kind string) bool {
	switch kind {
	case KindChallengeCompleted, KindBonus, KindPenalty, KindManualAdjustment, KindOther:
		return true
	}
	return false
}
