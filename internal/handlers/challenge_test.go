package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/podiumlabs/podium-api/internal/middleware"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
	"github.com/podiumlabs/podium-api/pkg/dto"
	"github.com/podiumlabs/podium-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupChallengeTest(t *testing.T) (*testutil.MockChallengeService, *testutil.MockHub, *ChallengeHandler, *services.JWTService) {
	t.Helper()
	mockChallengeService := new(testutil.MockChallengeService)
	mockHub := new(testutil.MockHub)
	handler := NewChallengeHandler(mockChallengeService, mockHub)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute)
	return mockChallengeService, mockHub, handler, jwtSvc
}

func TestChallengeHandler_List(t *testing.T) {
	mockChallengeService, _, handler, _ := setupChallengeTest(t)

	challenges := []models.Challenge{
		{ID: uuid.New(), Title: "Warmup", Points: 50},
		{ID: uuid.New(), Title: "Heap Feng Shui", Points: 400},
	}
	mockChallengeService.On("List", mock.Anything).Return(challenges, nil)

	app := drift.New()
	app.Get("/challenges", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/challenges", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var got []models.Challenge
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 2)

	mockChallengeService.AssertExpectations(t)
}

func TestChallengeHandler_List_ActiveOnly(t *testing.T) {
	mockChallengeService, _, handler, _ := setupChallengeTest(t)

	mockChallengeService.On("Active", mock.Anything).Return([]models.Challenge{}, nil)

	app := drift.New()
	app.Get("/challenges", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/challenges?active=true", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockChallengeService.AssertExpectations(t)
}

func TestChallengeHandler_Create_Validation(t *testing.T) {
	mockChallengeService, _, handler, jwtSvc := setupChallengeTest(t)

	mockChallengeService.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidPoints)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Post("/challenges", handler.Create)

	body, _ := json.Marshal(dto.CreateChallengeRequest{Title: "Valid Title", Points: -10, Difficulty: models.DifficultyEasy, Category: "web"})
	token := generateTestToken(t, jwtSvc, services.RoleAdmin)
	req := httptest.NewRequest(http.MethodPost, "/challenges", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChallengeHandler_Complete(t *testing.T) {
	mockChallengeService, mockHub, handler, jwtSvc := setupChallengeTest(t)

	challengeID := uuid.New()
	teamID := uuid.New()
	team := &models.Team{ID: teamID, Name: "Gophers", Score: 350}
	activity := &models.Activity{ID: uuid.New(), TeamID: teamID, ChallengeID: &challengeID, Points: 250, Kind: models.KindChallengeCompleted}

	mockChallengeService.On("Complete", mock.Anything, challengeID, teamID, "", mock.Anything).Return(team, activity, nil)
	mockHub.On("BroadcastChallengeCompleted", teamID, "Gophers", challengeID, 250).Return()
	mockHub.On("BroadcastTeamUpdated", teamID, "Gophers", 350).Return()
	mockHub.On("BroadcastLeaderboardUpdated", mock.Anything).Return()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Post("/challenges/:id/complete", handler.Complete)

	body, _ := json.Marshal(dto.CompleteChallengeRequest{TeamID: teamID.String()})
	token := generateTestToken(t, jwtSvc, services.RoleAdmin)
	req := httptest.NewRequest(http.MethodPost, "/challenges/"+challengeID.String()+"/complete", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var got struct {
		Team     models.Team     `json:"team"`
		Activity models.Activity `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 350, got.Team.Score)
	assert.Equal(t, 250, got.Activity.Points)

	mockChallengeService.AssertExpectations(t)
	mockHub.AssertExpectations(t)
}

func TestChallengeHandler_Complete_TeamNotFound(t *testing.T) {
	mockChallengeService, _, handler, jwtSvc := setupChallengeTest(t)

	challengeID := uuid.New()
	teamID := uuid.New()
	mockChallengeService.On("Complete", mock.Anything, challengeID, teamID, "", mock.Anything).
		Return(nil, nil, services.ErrTeamNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Post("/challenges/:id/complete", handler.Complete)

	body, _ := json.Marshal(dto.CompleteChallengeRequest{TeamID: teamID.String()})
	token := generateTestToken(t, jwtSvc, services.RoleAdmin)
	req := httptest.NewRequest(http.MethodPost, "/challenges/"+challengeID.String()+"/complete", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChallengeHandler_Delete_NotFound(t *testing.T) {
	mockChallengeService, _, handler, jwtSvc := setupChallengeTest(t)

	challengeID := uuid.New()
	mockChallengeService.On("Delete", mock.Anything, challengeID).Return(services.ErrChallengeNotFound)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Delete("/challenges/:id", handler.Delete)

	token := generateTestToken(t, jwtSvc, services.RoleAdmin)
	req := httptest.NewRequest(http.MethodDelete, "/challenges/"+challengeID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
