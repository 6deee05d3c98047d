package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/podiumlabs/podium-api/internal/models"
)

type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

type CreateTeamParams struct {
	Name         string
	Description  *string
	Avatar       *string
	Members      []string
	Color        *string
	InitialScore int
}

type UpdateTeamParams struct {
	Name        *string
	Description *string
	Avatar      *string
	Members     []string
	Color       *string
	IsActive    *bool
}

const teamColumns = `id, name, description, avatar, members, color, score, is_active, created_at, updated_at`

func (s *TeamService) Create(ctx context.Context, params CreateTeamParams) (*models.Team, error) {
	name := strings.TrimSpace(params.Name)
	if len(name) < 2 {
		return nil, ErrInvalidName
	}
	if len(params.Members) > models.MaxTeamMembers {
		return nil, ErrTooManyMembers
	}
	if params.InitialScore < 0 {
		return nil, ErrNegativeScore
	}
	if params.Members == nil {
		params.Members = []string{}
	}

	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO teams (name, description, avatar, members, color, score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+teamColumns,
		name, params.Description, params.Avatar, params.Members, params.Color, params.InitialScore,
	).Scan(
		&team.ID, &team.Name, &team.Description, &team.Avatar, &team.Members,
		&team.Color, &team.Score, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return &team, nil
}

func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+teamColumns+` FROM teams WHERE id = $1
	`, id).Scan(
		&team.ID, &team.Name, &team.Description, &team.Avatar, &team.Members,
		&team.Color, &team.Score, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// List returns all teams, active and inactive, sorted by the given column.
// Only a fixed set of columns is accepted; anything else falls back to name.
func (s *TeamService) List(ctx context.Context, sortBy string, descending bool) ([]models.Team, error) {
	switch sortBy {
	case "name", "score", "created_at", "updated_at":
	default:
		sortBy = "name"
	}
	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY `+sortBy+` `+direction+`, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return scanTeams(rows)
}

func (s *TeamService) Update(ctx context.Context, id uuid.UUID, params UpdateTeamParams) (*models.Team, error) {
	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		if len(trimmed) < 2 {
			return nil, ErrInvalidName
		}
		params.Name = &trimmed
	}
	if params.Members != nil && len(params.Members) > models.MaxTeamMembers {
		return nil, ErrTooManyMembers
	}

	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE teams
		SET name        = COALESCE($1, name),
		    description = COALESCE($2, description),
		    avatar      = COALESCE($3, avatar),
		    members     = COALESCE($4, members),
		    color       = COALESCE($5, color),
		    is_active   = COALESCE($6, is_active),
		    updated_at  = NOW()
		WHERE id = $7
		RETURNING `+teamColumns,
		params.Name, params.Description, params.Avatar, params.Members, params.Color, params.IsActive, id,
	).Scan(
		&team.ID, &team.Name, &team.Description, &team.Avatar, &team.Members,
		&team.Color, &team.Score, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return &team, nil
}

// Delete removes a team permanently. The activities table cascades, so the
// team's ledger entries go with it.
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// Search matches a case-insensitive substring against name and description.
func (s *TeamService) Search(ctx context.Context, query string) ([]models.Team, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+teamColumns+` FROM teams
		WHERE name ILIKE '%' || $1 || '%' OR COALESCE(description, '') ILIKE '%' || $1 || '%'
		ORDER BY name ASC
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	return scanTeams(rows)
}

func scanTeams(rows pgx.Rows) ([]models.Team, error) {
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID, &team.Name, &team.Description, &team.Avatar, &team.Members,
			&team.Color, &team.Score, &team.IsActive, &team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
