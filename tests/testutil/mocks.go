package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, params services.CreateTeamParams) (*models.Team, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) List(ctx context.Context, sortBy string, descending bool) ([]models.Team, error) {
	args := m.Called(ctx, sortBy, descending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) Update(ctx context.Context, id uuid.UUID, params services.UpdateTeamParams) (*models.Team, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamService) Search(ctx context.Context, query string) ([]models.Team, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

// MockScoreService mocks the ScoreService
type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) ApplyDelta(ctx context.Context, teamID uuid.UUID, points int, kind string, challengeID, actorID *uuid.UUID, description string) (*models.Team, *models.Activity, error) {
	args := m.Called(ctx, teamID, points, kind, challengeID, actorID, description)
	var team *models.Team
	var activity *models.Activity
	if args.Get(0) != nil {
		team = args.Get(0).(*models.Team)
	}
	if args.Get(1) != nil {
		activity = args.Get(1).(*models.Activity)
	}
	return team, activity, args.Error(2)
}

func (m *MockScoreService) SetScore(ctx context.Context, teamID uuid.UUID, value int, actorID *uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID, value, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockScoreService) ResetAll(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockScoreService) TeamActivities(ctx context.Context, teamID uuid.UUID, page, pageSize int) ([]models.Activity, int, error) {
	args := m.Called(ctx, teamID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Activity), args.Int(1), args.Error(2)
}

func (m *MockScoreService) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

// MockLeaderboardService mocks the LeaderboardService
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Full(ctx context.Context) (*services.Leaderboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardService) Podium(ctx context.Context) ([]services.RankedTeam, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.RankedTeam), args.Error(1)
}

func (m *MockLeaderboardService) Paginated(ctx context.Context, page, pageSize int, search string) (*services.PaginatedLeaderboard, error) {
	args := m.Called(ctx, page, pageSize, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PaginatedLeaderboard), args.Error(1)
}

func (m *MockLeaderboardService) Position(ctx context.Context, teamID uuid.UUID, contextSize int) (*services.TeamPosition, error) {
	args := m.Called(ctx, teamID, contextSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TeamPosition), args.Error(1)
}

func (m *MockLeaderboardService) Stats(ctx context.Context) (*services.GlobalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.GlobalStats), args.Error(1)
}

// MockExportService mocks the ExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Snapshot(ctx context.Context) (*services.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Snapshot), args.Error(1)
}

func (m *MockExportService) CSV(ctx context.Context) ([]byte, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// MockChallengeService mocks the ChallengeService
type MockChallengeService struct {
	mock.Mock
}

func (m *MockChallengeService) Create(ctx context.Context, params services.CreateChallengeParams) (*models.Challenge, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) List(ctx context.Context) ([]models.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Challenge), args.Error(1)
}

func (m *MockChallengeService) Active(ctx context.Context) ([]models.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Challenge), args.Error(1)
}

func (m *MockChallengeService) Update(ctx context.Context, id uuid.UUID, params services.UpdateChallengeParams) (*models.Challenge, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChallengeService) Complete(ctx context.Context, challengeID, teamID uuid.UUID, description string, actorID *uuid.UUID) (*models.Team, *models.Activity, error) {
	args := m.Called(ctx, challengeID, teamID, description, actorID)
	var team *models.Team
	var activity *models.Activity
	if args.Get(0) != nil {
		team = args.Get(0).(*models.Team)
	}
	if args.Get(1) != nil {
		activity = args.Get(1).(*models.Activity)
	}
	return team, activity, args.Error(2)
}

// MockHub mocks the SSE hub broadcasts
type MockHub struct {
	mock.Mock
}

func (m *MockHub) BroadcastTeamUpdated(teamID uuid.UUID, name string, score int) {
	m.Called(teamID, name, score)
}

func (m *MockHub) BroadcastLeaderboardUpdated(data any) {
	m.Called(data)
}

func (m *MockHub) BroadcastChallengeCompleted(teamID uuid.UUID, teamName string, challengeID uuid.UUID, points int) {
	m.Called(teamID, teamName, challengeID, points)
}

func (m *MockHub) BroadcastScoresReset() {
	m.Called()
}
