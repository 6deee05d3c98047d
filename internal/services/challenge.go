package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/podiumlabs/podium-api/internal/models"
)

type ChallengeService struct {
	db     *database.DB
	scores *ScoreService
}

func NewChallengeService(db *database.DB, scores *ScoreService) *ChallengeService {
	return &ChallengeService{db: db, scores: scores}
}

type CreateChallengeParams struct {
	Title       string
	Description string
	Points      int
	Difficulty  string
	Category    string
	StartDate   *time.Time
	EndDate     *time.Time
}

type UpdateChallengeParams struct {
	Title       *string
	Description *string
	Points      *int
	Difficulty  *string
	Category    *string
	IsActive    *bool
	EndDate     *time.Time
}

const challengeColumns = `id, title, description, points, difficulty, category, is_active, start_date, end_date, created_at, updated_at`

func (s *ChallengeService) Create(ctx context.Context, params CreateChallengeParams) (*models.Challenge, error) {
	title := strings.TrimSpace(params.Title)
	if len(title) < 2 {
		return nil, ErrInvalidTitle
	}
	if params.Points <= 0 {
		return nil, ErrInvalidPoints
	}
	if !models.ValidDifficulty(params.Difficulty) {
		return nil, ErrInvalidDifficulty
	}
	if strings.TrimSpace(params.Category) == "" {
		return nil, ErrInvalidCategory
	}

	startDate := time.Now()
	if params.StartDate != nil {
		startDate = *params.StartDate
	}

	var challenge models.Challenge
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO challenges (title, description, points, difficulty, category, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+challengeColumns,
		title, params.Description, params.Points, params.Difficulty, params.Category, startDate, params.EndDate,
	).Scan(
		&challenge.ID, &challenge.Title, &challenge.Description, &challenge.Points,
		&challenge.Difficulty, &challenge.Category, &challenge.IsActive,
		&challenge.StartDate, &challenge.EndDate, &challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return &challenge, nil
}

func (s *ChallengeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+challengeColumns+` FROM challenges WHERE id = $1
	`, id).Scan(
		&challenge.ID, &challenge.Title, &challenge.Description, &challenge.Points,
		&challenge.Difficulty, &challenge.Category, &challenge.IsActive,
		&challenge.StartDate, &challenge.EndDate, &challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &challenge, nil
}

func (s *ChallengeService) List(ctx context.Context) ([]models.Challenge, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+challengeColumns+` FROM challenges ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return scanChallenges(rows)
}

// Active returns challenges that are enabled and inside their date window.
func (s *ChallengeService) Active(ctx context.Context) ([]models.Challenge, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+challengeColumns+` FROM challenges
		WHERE is_active
		  AND start_date <= NOW()
		  AND (end_date IS NULL OR end_date > NOW())
		ORDER BY points DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active challenges: %w", err)
	}
	return scanChallenges(rows)
}

func (s *ChallengeService) Update(ctx context.Context, id uuid.UUID, params UpdateChallengeParams) (*models.Challenge, error) {
	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		if len(trimmed) < 2 {
			return nil, ErrInvalidTitle
		}
		params.Title = &trimmed
	}
	if params.Points != nil && *params.Points <= 0 {
		return nil, ErrInvalidPoints
	}
	if params.Difficulty != nil && !models.ValidDifficulty(*params.Difficulty) {
		return nil, ErrInvalidDifficulty
	}

	var challenge models.Challenge
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE challenges
		SET title       = COALESCE($1, title),
		    description = COALESCE($2, description),
		    points      = COALESCE($3, points),
		    difficulty  = COALESCE($4, difficulty),
		    category    = COALESCE($5, category),
		    is_active   = COALESCE($6, is_active),
		    end_date    = COALESCE($7, end_date),
		    updated_at  = NOW()
		WHERE id = $8
		RETURNING `+challengeColumns,
		params.Title, params.Description, params.Points, params.Difficulty,
		params.Category, params.IsActive, params.EndDate, id,
	).Scan(
		&challenge.ID, &challenge.Title, &challenge.Description, &challenge.Points,
		&challenge.Difficulty, &challenge.Category, &challenge.IsActive,
		&challenge.StartDate, &challenge.EndDate, &challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	return &challenge, nil
}

func (s *ChallengeService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

// Complete awards a challenge's points to a team. The award goes through
// the score service so it lands in the ledger like every other mutation.
func (s *ChallengeService) Complete(ctx context.Context, challengeID, teamID uuid.UUID, description string, actorID *uuid.UUID) (*models.Team, *models.Activity, error) {
	challenge, err := s.GetByID(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}

	if description == "" {
		description = fmt.Sprintf("Challenge %q completed", challenge.Title)
	}

	return s.scores.ApplyDelta(ctx, teamID, challenge.Points, models.KindChallengeCompleted, &challengeID, actorID, description)
}

func scanChallenges(rows pgx.Rows) ([]models.Challenge, error) {
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		var c models.Challenge
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Points, &c.Difficulty, &c.Category,
			&c.IsActive, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}
