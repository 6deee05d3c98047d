package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/podiumlabs/podium-api/internal/middleware"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
	"github.com/podiumlabs/podium-api/pkg/dto"
)

type TeamHandler struct {
	teamService     TeamServiceInterface
	scoreService    ScoreServiceInterface
	hub             HubInterface
	defaultPageSize int
	maxPageSize     int
}

func NewTeamHandler(teamService TeamServiceInterface, scoreService ScoreServiceInterface, hub HubInterface, defaultPageSize, maxPageSize int) *TeamHandler {
	return &TeamHandler{
		teamService:     teamService,
		scoreService:    scoreService,
		hub:             hub,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *TeamHandler) List(c *drift.Context) {
	sortBy := c.QueryParam("sort_by")
	descending := c.QueryParam("order") == "desc"

	teams, err := h.teamService.List(context.Background(), sortBy, descending)
	if err != nil {
		fail(c, 500, "failed to list teams")
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	ok(c, 200, teams)
}

func (h *TeamHandler) Get(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	team, err := h.teamService.GetByID(context.Background(), teamID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			fail(c, 404, "team not found")
			return
		}
		fail(c, 500, "failed to get team")
		return
	}
	ok(c, 200, team)
}

func (h *TeamHandler) Create(c *drift.Context) {
	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, 400, "invalid request body")
		return
	}

	team, err := h.teamService.Create(context.Background(), services.CreateTeamParams{
		Name:         req.Name,
		Description:  req.Description,
		Avatar:       req.Avatar,
		Members:      req.Members,
		Color:        req.Color,
		InitialScore: req.InitialScore,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidName),
			errors.Is(err, services.ErrTooManyMembers),
			errors.Is(err, services.ErrNegativeScore):
			fail(c, 400, err.Error())
		case errors.Is(err, services.ErrNameTaken):
			fail(c, 409, "team name already exists")
		default:
			fail(c, 500, "failed to create team")
		}
		return
	}

	h.hub.BroadcastLeaderboardUpdated(nil)
	ok(c, 201, team)
}

func (h *TeamHandler) Update(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, 400, "invalid request body")
		return
	}

	team, err := h.teamService.Update(context.Background(), teamID, services.UpdateTeamParams{
		Name:        req.Name,
		Description: req.Description,
		Avatar:      req.Avatar,
		Members:     req.Members,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			fail(c, 404, "team not found")
		case errors.Is(err, services.ErrInvalidName), errors.Is(err, services.ErrTooManyMembers):
			fail(c, 400, err.Error())
		case errors.Is(err, services.ErrNameTaken):
			fail(c, 409, "team name already exists")
		default:
			fail(c, 500, "failed to update team")
		}
		return
	}

	h.hub.BroadcastTeamUpdated(team.ID, team.Name, team.Score)
	ok(c, 200, team)
}

func (h *TeamHandler) Delete(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			fail(c, 404, "team not found")
			return
		}
		fail(c, 500, "failed to delete team")
		return
	}

	h.hub.BroadcastLeaderboardUpdated(nil)
	okMessage(c, 200, nil, "team deleted")
}

func (h *TeamHandler) Search(c *drift.Context) {
	query := c.QueryParam("q")
	if query == "" {
		fail(c, 400, "q is required")
		return
	}

	teams, err := h.teamService.Search(context.Background(), query)
	if err != nil {
		fail(c, 500, "failed to search teams")
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	ok(c, 200, teams)
}

// UpdateScore applies a score mutation. The operation field selects add,
// subtract or set; the broadcast fires only after the mutation committed.
func (h *TeamHandler) UpdateScore(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	var req dto.UpdateScoreRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, 400, "invalid request body")
		return
	}

	actorID := middleware.GetUserID(c)
	var actor *uuid.UUID
	if actorID != uuid.Nil {
		actor = &actorID
	}

	ctx := context.Background()
	var team *models.Team

	switch req.Operation {
	case "add", "subtract":
		points := req.Points
		if points <= 0 {
			fail(c, 400, "points must be a positive integer")
			return
		}
		kind := req.Kind
		if kind == "" {
			kind = models.KindBonus
		}
		if req.Operation == "subtract" {
			points = -points
			if req.Kind == "" {
				kind = models.KindPenalty
			}
		}
		team, _, err = h.scoreService.ApplyDelta(ctx, teamID, points, kind, nil, actor, req.Description)
	case "set":
		team, err = h.scoreService.SetScore(ctx, teamID, req.Points, actor)
	default:
		fail(c, 400, "operation must be add, subtract or set")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			fail(c, 404, "team not found")
		case errors.Is(err, services.ErrZeroPoints),
			errors.Is(err, services.ErrInvalidKind),
			errors.Is(err, services.ErrNegativeScore):
			fail(c, 400, err.Error())
		default:
			fail(c, 500, "failed to update score")
		}
		return
	}

	h.hub.BroadcastTeamUpdated(team.ID, team.Name, team.Score)
	h.hub.BroadcastLeaderboardUpdated(nil)
	ok(c, 200, team)
}

// ResetScores zeroes all scores and clears the activity ledger.
func (h *TeamHandler) ResetScores(c *drift.Context) {
	teams, err := h.scoreService.ResetAll(context.Background())
	if err != nil {
		fail(c, 500, "failed to reset scores")
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}

	h.hub.BroadcastScoresReset()
	h.hub.BroadcastLeaderboardUpdated(nil)
	okMessage(c, 200, teams, "all scores reset")
}

// Activities serves a page of a team's score history, newest first.
func (h *TeamHandler) Activities(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	page := 1
	if s := c.QueryParam("page"); s != "" {
		page, err = strconv.Atoi(s)
		if err != nil || page < 1 {
			fail(c, 400, "page must be a positive integer")
			return
		}
	}

	pageSize := h.defaultPageSize
	if s := c.QueryParam("page_size"); s != "" {
		pageSize, err = strconv.Atoi(s)
		if err != nil || pageSize < 1 {
			fail(c, 400, "page_size must be a positive integer")
			return
		}
	}
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	activities, total, err := h.scoreService.TeamActivities(context.Background(), teamID, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			fail(c, 404, "team not found")
			return
		}
		fail(c, 500, "failed to load activities")
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	ok(c, 200, map[string]any{
		"activities": activities,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}
