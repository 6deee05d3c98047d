package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/podiumlabs/podium-api/internal/models"
)

// LeaderboardService computes orderings over the current active team set.
// It holds no state of its own; every query re-reads current scores, so
// two separate calls may observe different standings if mutations land
// in between.
//
// Ordering rule, applied identically in every query and in the export:
// score descending, then creation time ascending, then id ascending.
// Equal scores always resolve the same way.
type LeaderboardService struct {
	db *database.DB
}

func NewLeaderboardService(db *database.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// rankedTeamsQuery drives the full leaderboard, the podium, the position
// lookup and the export. Keeping one query keeps the orderings identical.
const rankedTeamsQuery = `
	SELECT t.id, t.name, t.description, t.avatar, t.members, t.color, t.score, t.is_active, t.created_at, t.updated_at,
	       COUNT(a.id) AS activities_count
	FROM teams t
	LEFT JOIN activities a ON a.team_id = t.id
	WHERE t.is_active
	GROUP BY t.id
	ORDER BY t.score DESC, t.created_at ASC, t.id ASC`

type RankedTeam struct {
	models.Team
	Position        int    `json:"position"`
	Rank            string `json:"rank"`
	Medal           string `json:"medal,omitempty"`
	ActivitiesCount int    `json:"activities_count"`
	IsCurrentTeam   bool   `json:"is_current_team,omitempty"`
}

type LeaderboardStats struct {
	TotalTeams   int     `json:"total_teams"`
	TotalPoints  int     `json:"total_points"`
	AverageScore float64 `json:"average_score"`
	TopScore     int     `json:"top_score"`
	LowestScore  int     `json:"lowest_score"`
	ScoreRange   int     `json:"score_range"`
}

type Leaderboard struct {
	Teams []RankedTeam     `json:"teams"`
	Stats LeaderboardStats `json:"stats"`
}

type PaginatedLeaderboard struct {
	Teams      []RankedTeam `json:"teams"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	HasMore    bool         `json:"has_more"`
}

type TeamPosition struct {
	Team               RankedTeam   `json:"team"`
	Context            []RankedTeam `json:"context"`
	TotalTeams         int          `json:"total_teams"`
	ScoreGapToNext     *int         `json:"score_gap_to_next"`
	ScoreGapToPrevious *int         `json:"score_gap_to_previous"`
}

type GlobalStats struct {
	LeaderboardStats
	TotalChallenges  int               `json:"total_challenges"`
	TotalActivities  int               `json:"total_activities"`
	HighestTeam      *RankedTeam       `json:"highest_team,omitempty"`
	RecentActivities []models.Activity `json:"recent_activities"`
}

// Full returns every active team in ranking order with aggregate stats.
func (s *LeaderboardService) Full(ctx context.Context) (*Leaderboard, error) {
	teams, err := s.rankedTeams(ctx)
	if err != nil {
		return nil, err
	}
	return &Leaderboard{Teams: teams, Stats: computeStats(teams)}, nil
}

// Podium returns the top three teams, or fewer when fewer exist.
func (s *LeaderboardService) Podium(ctx context.Context) ([]RankedTeam, error) {
	rows, err := s.db.Pool.Query(ctx, rankedTeamsQuery+`
	LIMIT 3`)
	if err != nil {
		return nil, fmt.Errorf("failed to query podium: %w", err)
	}
	return collectRanked(rows)
}

// Paginated filters by a case-insensitive substring on name or description,
// then pages. A team's position is its rank in the unfiltered active
// ordering, so a search result keeps its place on the global board.
func (s *LeaderboardService) Paginated(ctx context.Context, page, pageSize int, search string) (*PaginatedLeaderboard, error) {
	if page <= 0 {
		return nil, ErrInvalidPage
	}
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	var total int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM teams
		WHERE is_active
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR COALESCE(description, '') ILIKE '%' || $1 || '%')
	`, search).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count teams: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, `
		WITH ranked AS (
			SELECT t.id, t.name, t.description, t.avatar, t.members, t.color, t.score, t.is_active, t.created_at, t.updated_at,
			       COUNT(a.id) AS activities_count,
			       ROW_NUMBER() OVER (ORDER BY t.score DESC, t.created_at ASC, t.id ASC) AS position
			FROM teams t
			LEFT JOIN activities a ON a.team_id = t.id
			WHERE t.is_active
			GROUP BY t.id
		)
		SELECT id, name, description, avatar, members, color, score, is_active, created_at, updated_at, activities_count, position
		FROM ranked
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR COALESCE(description, '') ILIKE '%' || $1 || '%'
		ORDER BY position
		LIMIT $2 OFFSET $3
	`, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard page: %w", err)
	}
	defer rows.Close()

	var teams []RankedTeam
	for rows.Next() {
		var rt RankedTeam
		var position int64
		if err := rows.Scan(
			&rt.ID, &rt.Name, &rt.Description, &rt.Avatar, &rt.Members, &rt.Color,
			&rt.Score, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt,
			&rt.ActivitiesCount, &position,
		); err != nil {
			return nil, err
		}
		annotate(&rt, int(position))
		teams = append(teams, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &PaginatedLeaderboard{
		Teams:      teams,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

// Position returns a team's rank with a symmetric window of contextSize
// neighbors, clamped at the list boundaries, and the score gaps to the
// teams immediately above and below.
func (s *LeaderboardService) Position(ctx context.Context, teamID uuid.UUID, contextSize int) (*TeamPosition, error) {
	if contextSize < 0 {
		return nil, ErrInvalidContextSize
	}

	teams, err := s.rankedTeams(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range teams {
		if teams[i].ID == teamID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrTeamNotFound
	}

	start := idx - contextSize
	if start < 0 {
		start = 0
	}
	end := idx + contextSize + 1
	if end > len(teams) {
		end = len(teams)
	}

	window := make([]RankedTeam, end-start)
	copy(window, teams[start:end])
	for i := range window {
		window[i].IsCurrentTeam = window[i].ID == teamID
	}

	var gapToNext, gapToPrevious *int
	if idx > 0 {
		gap := teams[idx-1].Score - teams[idx].Score
		gapToNext = &gap
	}
	if idx < len(teams)-1 {
		gap := teams[idx].Score - teams[idx+1].Score
		gapToPrevious = &gap
	}

	return &TeamPosition{
		Team:               teams[idx],
		Context:            window,
		TotalTeams:         len(teams),
		ScoreGapToNext:     gapToNext,
		ScoreGapToPrevious: gapToPrevious,
	}, nil
}

// Stats returns the leaderboard aggregates plus contest-wide counters.
// The caller attaches recent activities; this keeps the ledger read in
// the score service where the rest of the ledger queries live.
func (s *LeaderboardService) Stats(ctx context.Context) (*GlobalStats, error) {
	teams, err := s.rankedTeams(ctx)
	if err != nil {
		return nil, err
	}

	stats := GlobalStats{LeaderboardStats: computeStats(teams)}
	if len(teams) > 0 {
		stats.HighestTeam = &teams[0]
	}

	err = s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM challenges WHERE is_active`).Scan(&stats.TotalChallenges)
	if err != nil {
		return nil, fmt.Errorf("failed to count challenges: %w", err)
	}

	err = s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&stats.TotalActivities)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	return &stats, nil
}

func (s *LeaderboardService) rankedTeams(ctx context.Context) ([]RankedTeam, error) {
	rows, err := s.db.Pool.Query(ctx, rankedTeamsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	return collectRanked(rows)
}

func collectRanked(rows pgx.Rows) ([]RankedTeam, error) {
	defer rows.Close()

	var teams []RankedTeam
	for rows.Next() {
		var rt RankedTeam
		if err := rows.Scan(
			&rt.ID, &rt.Name, &rt.Description, &rt.Avatar, &rt.Members, &rt.Color,
			&rt.Score, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt,
			&rt.ActivitiesCount,
		); err != nil {
			return nil, err
		}
		annotate(&rt, len(teams)+1)
		teams = append(teams, rt)
	}
	return teams, rows.Err()
}

func annotate(rt *RankedTeam, position int) {
	rt.Position = position
	rt.Rank = ordinal(position)
	rt.Medal = medal(position)
}

func computeStats(teams []RankedTeam) LeaderboardStats {
	stats := LeaderboardStats{TotalTeams: len(teams)}
	if len(teams) == 0 {
		return stats
	}

	for i := range teams {
		stats.TotalPoints += teams[i].Score
	}
	stats.TopScore = teams[0].Score
	stats.LowestScore = teams[len(teams)-1].Score
	stats.ScoreRange = stats.TopScore - stats.LowestScore
	stats.AverageScore = math.Round(float64(stats.TotalPoints)/float64(len(teams))*100) / 100
	return stats
}

// ordinal formats a 1-based position as an English ordinal, with the
// 11th/12th/13th exception.
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func medal(position int) string {
	switch position {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return ""
	}
}
