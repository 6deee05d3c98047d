package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExportService renders leaderboard snapshots. Both formats read through
// the same ranked query the live leaderboard uses, so an export taken
// between mutations matches what the board showed at that moment.
type ExportService struct {
	leaderboard *LeaderboardService
}

func NewExportService(leaderboard *LeaderboardService) *ExportService {
	return &ExportService{leaderboard: leaderboard}
}

type Snapshot struct {
	Teams       []RankedTeam `json:"teams"`
	ExportedAt  time.Time    `json:"exported_at"`
	TotalTeams  int          `json:"total_teams"`
	TotalPoints int          `json:"total_points"`
}

// Snapshot returns the full standings with export metadata, for the JSON
// export endpoint.
func (s *ExportService) Snapshot(ctx context.Context) (*Snapshot, error) {
	board, err := s.leaderboard.Full(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Teams:       board.Teams,
		ExportedAt:  time.Now().UTC(),
		TotalTeams:  board.Stats.TotalTeams,
		TotalPoints: board.Stats.TotalPoints,
	}, nil
}

// CSV renders the standings as a CSV document and returns the bytes with
// a date-stamped filename for the Content-Disposition header.
func (s *ExportService) CSV(ctx context.Context) ([]byte, string, error) {
	board, err := s.leaderboard.Full(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"position", "name", "score", "members", "activitiesCount", "createdAt"}); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, team := range board.Teams {
		record := []string{
			strconv.Itoa(team.Position),
			team.Name,
			strconv.Itoa(team.Score),
			strings.Join(team.Members, ", "),
			strconv.Itoa(team.ActivitiesCount),
			team.CreatedAt.UTC().Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("podium-leaderboard-%s.csv", time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
