package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/podiumlabs/podium-api/internal/middleware"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
	"github.com/podiumlabs/podium-api/pkg/dto"
)

type ChallengeHandler struct {
	challengeService ChallengeServiceInterface
	hub              HubInterface
}

func NewChallengeHandler(challengeService ChallengeServiceInterface, hub HubInterface) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService, hub: hub}
}

func (h *ChallengeHandler) List(c *drift.Context) {
	var (
		challenges []models.Challenge
		err        error
	)
	if c.QueryParam("active") == "true" {
		challenges, err = h.challengeService.Active(context.Background())
	} else {
		challenges, err = h.challengeService.List(context.Background())
	}
	if err != nil {
		fail(c, 500, "failed to list challenges")
		return
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	ok(c, 200, challenges)
}

func (h *ChallengeHandler) Get(c *drift.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid challenge id")
		return
	}

	challenge, err := h.challengeService.GetByID(context.Background(), challengeID)
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			fail(c, 404, "challenge not found")
			return
		}
		fail(c, 500, "failed to get challenge")
		return
	}
	ok(c, 200, challenge)
}

func (h *ChallengeHandler) Create(c *drift.Context) {
	var req dto.CreateChallengeRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, 400, "invalid request body")
		return
	}

	challenge, err := h.challengeService.Create(context.Background(), services.CreateChallengeParams{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTitle),
			errors.Is(err, services.ErrInvalidPoints),
			errors.Is(err, services.ErrInvalidDifficulty),
			errors.Is(err, services.ErrInvalidCategory):
			fail(c, 400, err.Error())
		default:
			fail(c, 500, "failed to create challenge")
		}
		return
	}
	ok(c, 201, challenge)
}

func (h *ChallengeHandler) Update(c *drift.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid challenge id")
		return
	}

	var req dto.UpdateChallengeRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, 400, "invalid request body")
		return
	}

	challenge, err := h.challengeService.Update(context.Background(), challengeID, services.UpdateChallengeParams{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
		IsActive:    req.IsActive,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			fail(c, 404, "challenge not found")
		case errors.Is(err, services.ErrInvalidTitle),
			errors.Is(err, services.ErrInvalidPoints),
			errors.Is(err, services.ErrInvalidDifficulty):
			fail(c, 400, err.Error())
		default:
			fail(c, 500, "failed to update challenge")
		}
		return
	}
	ok(c, 200, challenge)
}

func (h *ChallengeHandler) Delete(c *drift.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid challenge id")
		return
	}

	if err := h.challengeService.Delete(context.Background(), challengeID); err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			fail(c, 404, "challenge not found")
			return
		}
		fail(c, 500, "failed to delete challenge")
		return
	}
	okMessage(c, 200, nil, "challenge deleted")
}

// Complete awards the challenge's points to a team and announces it to
// connected clients once the award is committed.
func (h *ChallengeHandler) Complete(c *drift.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid challenge id")
		return
	}

	var req dto.CompleteChallengeRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, 400, "invalid request body")
		return
	}

	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	actorID := middleware.GetUserID(c)
	var actor *uuid.UUID
	if actorID != uuid.Nil {
		actor = &actorID
	}

	team, activity, err := h.challengeService.Complete(context.Background(), challengeID, teamID, req.Description, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			fail(c, 404, "challenge not found")
		case errors.Is(err, services.ErrTeamNotFound):
			fail(c, 404, "team not found")
		default:
			fail(c, 500, "failed to complete challenge")
		}
		return
	}

	h.hub.BroadcastChallengeCompleted(team.ID, team.Name, challengeID, activity.Points)
	h.hub.BroadcastTeamUpdated(team.ID, team.Name, team.Score)
	h.hub.BroadcastLeaderboardUpdated(nil)

	ok(c, 200, map[string]any{
		"team":     team,
		"activity": activity,
	})
}
