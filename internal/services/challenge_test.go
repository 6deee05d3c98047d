package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var challengeCols = []string{
	"id", "title", "description", "points", "difficulty", "category",
	"is_active", "start_date", "end_date", "created_at", "updated_at",
}

func setupChallengeService(t *testing.T) (*ChallengeService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewChallengeService(db, NewScoreService(db)), mock
}

func challengeRow(id uuid.UUID, title string, points int) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(challengeCols).
		AddRow(id, title, "desc", points, models.DifficultyMedium, "web", true, now, nil, now, now)
}

func TestChallengeService_Create(t *testing.T) {
	svc, mock := setupChallengeService(t)
	challengeID := uuid.New()

	mock.ExpectQuery(`INSERT INTO challenges`).
		WithArgs("SQL Injection 101", "desc", 100, models.DifficultyMedium, "web", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(challengeRow(challengeID, "SQL Injection 101", 100))

	challenge, err := svc.Create(context.Background(), CreateChallengeParams{
		Title:       "SQL Injection 101",
		Description: "desc",
		Points:      100,
		Difficulty:  models.DifficultyMedium,
		Category:    "web",
	})

	require.NoError(t, err)
	assert.Equal(t, challengeID, challenge.ID)
	assert.Equal(t, 100, challenge.Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeService_Create_Validation(t *testing.T) {
	svc, _ := setupChallengeService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateChallengeParams{Title: "x", Points: 100, Difficulty: models.DifficultyEasy, Category: "web"})
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = svc.Create(ctx, CreateChallengeParams{Title: "Valid", Points: 0, Difficulty: models.DifficultyEasy, Category: "web"})
	assert.ErrorIs(t, err, ErrInvalidPoints)

	_, err = svc.Create(ctx, CreateChallengeParams{Title: "Valid", Points: -50, Difficulty: models.DifficultyEasy, Category: "web"})
	assert.ErrorIs(t, err, ErrInvalidPoints)

	_, err = svc.Create(ctx, CreateChallengeParams{Title: "Valid", Points: 100, Difficulty: "IMPOSSIBLE", Category: "web"})
	assert.ErrorIs(t, err, ErrInvalidDifficulty)

	_, err = svc.Create(ctx, CreateChallengeParams{Title: "Valid", Points: 100, Difficulty: models.DifficultyEasy, Category: "  "})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestChallengeService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupChallengeService(t)
	challengeID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM challenges WHERE id`).
		WithArgs(challengeID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), challengeID)

	assert.ErrorIs(t, err, ErrChallengeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeService_Active(t *testing.T) {
	svc, mock := setupChallengeService(t)
	now := time.Now()

	rows := pgxmock.NewRows(challengeCols).
		AddRow(uuid.New(), "Crypto Warmup", "desc", 200, models.DifficultyHard, "crypto", true, now.Add(-time.Hour), nil, now, now)
	mock.ExpectQuery(`SELECT .+ FROM challenges`).
		WillReturnRows(rows)

	challenges, err := svc.Active(context.Background())

	require.NoError(t, err)
	require.Len(t, challenges, 1)
	assert.Equal(t, "Crypto Warmup", challenges[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeService_Delete_NotFound(t *testing.T) {
	svc, mock := setupChallengeService(t)
	challengeID := uuid.New()

	mock.ExpectExec(`DELETE FROM challenges WHERE id`).
		WithArgs(challengeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), challengeID)

	assert.ErrorIs(t, err, ErrChallengeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeService_Complete(t *testing.T) {
	svc, mock := setupChallengeService(t)
	challengeID := uuid.New()
	teamID := uuid.New()
	activityID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM challenges WHERE id`).
		WithArgs(challengeID).
		WillReturnRows(challengeRow(challengeID, "Pwn the Flag", 250))

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE teams SET score = GREATEST`).
		WithArgs(250, teamID).
		WillReturnRows(teamRow(teamID, "Gophers", 350))

	activityRows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(activityID, now)
	mock.ExpectQuery(`INSERT INTO activities`).
		WithArgs(teamID, &challengeID, pgxmock.AnyArg(), 250, models.KindChallengeCompleted, `Challenge "Pwn the Flag" completed`).
		WillReturnRows(activityRows)
	mock.ExpectCommit()

	team, activity, err := svc.Complete(context.Background(), challengeID, teamID, "", nil)

	require.NoError(t, err)
	assert.Equal(t, 350, team.Score)
	assert.Equal(t, 250, activity.Points)
	assert.Equal(t, models.KindChallengeCompleted, activity.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeService_Complete_ChallengeNotFound(t *testing.T) {
	svc, mock := setupChallengeService(t)
	challengeID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM challenges WHERE id`).
		WithArgs(challengeID).
		WillReturnError(pgx.ErrNoRows)

	_, _, err := svc.Complete(context.Background(), challengeID, uuid.New(), "", nil)

	assert.ErrorIs(t, err, ErrChallengeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
