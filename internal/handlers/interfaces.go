package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
)

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, params services.CreateTeamParams) (*models.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	List(ctx context.Context, sortBy string, descending bool) ([]models.Team, error)
	Update(ctx context.Context, id uuid.UUID, params services.UpdateTeamParams) (*models.Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]models.Team, error)
}

// ScoreServiceInterface defines the methods used by handlers from ScoreService
type ScoreServiceInterface interface {
	ApplyDelta(ctx context.Context, teamID uuid.UUID, points int, kind string, challengeID, actorID *uuid.UUID, description string) (*models.Team, *models.Activity, error)
	SetScore(ctx context.Context, teamID uuid.UUID, value int, actorID *uuid.UUID) (*models.Team, error)
	ResetAll(ctx context.Context) ([]models.Team, error)
	TeamActivities(ctx context.Context, teamID uuid.UUID, page, pageSize int) ([]models.Activity, int, error)
	RecentActivities(ctx context.Context, limit int) ([]models.Activity, error)
}

// LeaderboardServiceInterface defines the methods used by handlers from LeaderboardService
type LeaderboardServiceInterface interface {
	Full(ctx context.Context) (*services.Leaderboard, error)
	Podium(ctx context.Context) ([]services.RankedTeam, error)
	Paginated(ctx context.Context, page, pageSize int, search string) (*services.PaginatedLeaderboard, error)
	Position(ctx context.Context, teamID uuid.UUID, contextSize int) (*services.TeamPosition, error)
	Stats(ctx context.Context) (*services.GlobalStats, error)
}

// ExportServiceInterface defines the methods used by handlers from ExportService
type ExportServiceInterface interface {
	Snapshot(ctx context.Context) (*services.Snapshot, error)
	CSV(ctx context.Context) ([]byte, string, error)
}

// ChallengeServiceInterface defines the methods used by handlers from ChallengeService
type ChallengeServiceInterface interface {
	Create(ctx context.Context, params services.CreateChallengeParams) (*models.Challenge, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	List(ctx context.Context) ([]models.Challenge, error)
	Active(ctx context.Context) ([]models.Challenge, error)
	Update(ctx context.Context, id uuid.UUID, params services.UpdateChallengeParams) (*models.Challenge, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, challengeID, teamID uuid.UUID, description string, actorID *uuid.UUID) (*models.Team, *models.Activity, error)
}

// HubInterface defines the methods used by handlers from the Hub
type HubInterface interface {
	BroadcastTeamUpdated(teamID uuid.UUID, name string, score int)
	BroadcastLeaderboardUpdated(data any)
	BroadcastChallengeCompleted(teamID uuid.UUID, teamName string, challengeID uuid.UUID, points int)
	BroadcastScoresReset()
}
