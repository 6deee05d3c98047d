package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/podiumlabs/podium-api/internal/models"
)

// ScoreService is the only writer of the team score field. Every score
// mutation pairs an activities insert with the score update in one
// transaction, so the cached score never diverges from the ledger.
//
// Decrements clamp the cached score at zero; the ledger entry keeps the
// signed delta that was requested, for audit.
type ScoreService struct {
	db *database.DB
}

func NewScoreService(db *database.DB) *ScoreService {
	return &ScoreService{db: db}
}

func (s *ScoreService) ApplyDelta(ctx context.Context, teamID uuid.UUID, points int, kind string, challengeID, actorID *uuid.UUID, description string) (*models.Team, *models.Activity, error) {
	if points == 0 {
		return nil, nil, ErrZeroPoints
	}
	if !models.ValidKind(kind) {
		return nil, nil, ErrInvalidKind
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var team models.Team
	err = tx.QueryRow(ctx, `
		UPDATE teams
		SET score = GREATEST(0, score + $1), updated_at = NOW()
		WHERE id = $2 AND is_active
		RETURNING id, name, description, avatar, members, color, score, is_active, created_at, updated_at
	`, points, teamID).Scan(
		&team.ID, &team.Name, &team.Description, &team.Avatar, &team.Members,
		&team.Color, &team.Score, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to update team score: %w", err)
	}

	activity := models.Activity{
		TeamID:      teamID,
		ChallengeID: challengeID,
		ActorID:     actorID,
		Points:      points,
		Kind:        kind,
		Description: description,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO activities (team_id, challenge_id, actor_id, points, kind, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, teamID, challengeID, actorID, points, kind, description).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &team, &activity, nil
}

// SetScore overrides a team's score to an absolute value. The override is
// recorded as a manual adjustment entry whose points equal the difference,
// which keeps the ledger sum equal to the new score.
func (s *ScoreService) SetScore(ctx context.Context, teamID uuid.UUID, value int, actorID *uuid.UUID) (*models.Team, error) {
	if value < 0 {
		return nil, ErrNegativeScore
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx, `SELECT score FROM teams WHERE id = $1 AND is_active FOR UPDATE`, teamID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to read team score: %w", err)
	}

	if delta := value - current; delta != 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO activities (team_id, actor_id, points, kind, description)
			VALUES ($1, $2, $3, $4, $5)
		`, teamID, actorID, delta, models.KindManualAdjustment, fmt.Sprintf("Score set to %d", value))
		if err != nil {
			return nil, fmt.Errorf("failed to record adjustment: %w", err)
		}
	}

	var team models.Team
	err = tx.QueryRow(ctx, `
		UPDATE teams
		SET score = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, description, avatar, members, color, score, is_active, created_at, updated_at
	`, value, teamID).Scan(
		&team.ID, &team.Name, &team.Description, &team.Avatar, &team.Members,
		&team.Color, &team.Score, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set team score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &team, nil
}

// ResetAll zeroes every team's score and clears the ledger in one
// transaction. Returns the updated teams ordered by name.
func (s *ScoreService) ResetAll(ctx context.Context) ([]models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Zero the scores first: the row locks make any in-flight score
	// mutation commit either before or after the whole reset, so the
	// delete below never misses a concurrently inserted entry.
	if _, err := tx.Exec(ctx, `UPDATE teams SET score = 0, updated_at = NOW()`); err != nil {
		return nil, fmt.Errorf("failed to reset scores: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM activities`); err != nil {
		return nil, fmt.Errorf("failed to clear activities: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, description, avatar, members, color, score, is_active, created_at, updated_at
		FROM teams
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	teams, err := scanTeams(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return teams, nil
}

// TeamActivities returns a page of a team's ledger, newest first.
func (s *ScoreService) TeamActivities(ctx context.Context, teamID uuid.UUID, page, pageSize int) ([]models.Activity, int, error) {
	if page <= 0 {
		return nil, 0, ErrInvalidPage
	}
	if pageSize <= 0 {
		return nil, 0, ErrInvalidPageSize
	}

	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, teamID).Scan(&exists)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, ErrTeamNotFound
	}

	var total int
	err = s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities WHERE team_id = $1`, teamID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.team_id, a.challenge_id, a.actor_id, a.points, a.kind, a.description, a.created_at, c.title
		FROM activities a
		LEFT JOIN challenges c ON a.challenge_id = c.id
		WHERE a.team_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`, teamID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ID, &a.TeamID, &a.ChallengeID, &a.ActorID, &a.Points,
			&a.Kind, &a.Description, &a.CreatedAt, &a.ChallengeTitle,
		); err != nil {
			return nil, 0, err
		}
		activities = append(activities, a)
	}
	return activities, total, rows.Err()
}

// RecentActivities returns the newest ledger entries across all teams.
func (s *ScoreService) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.team_id, a.challenge_id, a.actor_id, a.points, a.kind, a.description, a.created_at, t.name, c.title
		FROM activities a
		JOIN teams t ON a.team_id = t.id
		LEFT JOIN challenges c ON a.challenge_id = c.id
		ORDER BY a.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ID, &a.TeamID, &a.ChallengeID, &a.ActorID, &a.Points,
			&a.Kind, &a.Description, &a.CreatedAt, &a.TeamName, &a.ChallengeTitle,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
