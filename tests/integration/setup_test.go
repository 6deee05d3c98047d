package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
	"github.com/podiumlabs/podium-api/tests/testutil"
)

// TestMain runs before all tests in this package
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// setupTest creates a test database and returns cleanup function
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	return testutil.SetupTestDB(t)
}

func createTeam(t *testing.T, svc *services.TeamService, name string, initialScore int) *models.Team {
	t.Helper()
	team, err := svc.Create(context.Background(), services.CreateTeamParams{
		Name:         name,
		InitialScore: initialScore,
	})
	if err != nil {
		t.Fatalf("failed to create team %s: %v", name, err)
	}
	return team
}

func createChallenge(t *testing.T, svc *services.ChallengeService, title string, points int) uuid.UUID {
	t.Helper()
	challenge, err := svc.Create(context.Background(), services.CreateChallengeParams{
		Title:      title,
		Points:     points,
		Difficulty: models.DifficultyMedium,
		Category:   "general",
	})
	if err != nil {
		t.Fatalf("failed to create challenge %s: %v", title, err)
	}
	return challenge.ID
}
