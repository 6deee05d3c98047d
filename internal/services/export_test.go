package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExportService(t *testing.T) (*ExportService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewExportService(NewLeaderboardService(db)), mock
}

func TestExportService_CSV(t *testing.T) {
	svc, mock := setupExportService(t)
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	rows := pgxmock.NewRows(rankedCols).
		AddRow(uuid.New(), "Alpha", nil, nil, []string{"alice", "bob"}, nil, 520, true, created, created, 12).
		AddRow(uuid.New(), "Beta", nil, nil, []string{}, nil, 450, true, created, created, 9)
	mock.ExpectQuery(`SELECT .+ FROM teams t`).WillReturnRows(rows)

	data, filename, err := svc.CSV(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "podium-leaderboard-"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"position", "name", "score", "members", "activitiesCount", "createdAt"}, records[0])
	assert.Equal(t, []string{"1", "Alpha", "520", "alice, bob", "12", "2026-03-14"}, records[1])
	assert.Equal(t, []string{"2", "Beta", "450", "", "9", "2026-03-14"}, records[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportService_CSV_Empty(t *testing.T) {
	svc, mock := setupExportService(t)

	mock.ExpectQuery(`SELECT .+ FROM teams t`).
		WillReturnRows(pgxmock.NewRows(rankedCols))

	data, _, err := svc.CSV(context.Background())

	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	// Header only
	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportService_Snapshot(t *testing.T) {
	svc, mock := setupExportService(t)

	rows := pgxmock.NewRows(rankedCols)
	rankedRow(rows, uuid.New(), "Alpha", 520, 12)
	rankedRow(rows, uuid.New(), "Beta", 450, 9)
	mock.ExpectQuery(`SELECT .+ FROM teams t`).WillReturnRows(rows)

	before := time.Now().UTC()
	snapshot, err := svc.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Len(t, snapshot.Teams, 2)
	assert.Equal(t, 2, snapshot.TotalTeams)
	assert.Equal(t, 970, snapshot.TotalPoints)
	assert.False(t, snapshot.ExportedAt.Before(before))
	// Snapshot order matches the live board order
	assert.Equal(t, "Alpha", snapshot.Teams[0].Name)
	assert.Equal(t, 1, snapshot.Teams[0].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}
