package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/podiumlabs/podium-api/internal/models"
	"github.com/podiumlabs/podium-api/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService LeaderboardServiceInterface
	exportService      ExportServiceInterface
	scoreService       ScoreServiceInterface
	defaultPageSize    int
	maxPageSize        int
}

func NewLeaderboardHandler(leaderboardService LeaderboardServiceInterface, exportService ExportServiceInterface, scoreService ScoreServiceInterface, defaultPageSize, maxPageSize int) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		exportService:      exportService,
		scoreService:       scoreService,
		defaultPageSize:    defaultPageSize,
		maxPageSize:        maxPageSize,
	}
}

// Get serves the leaderboard. Without query parameters it returns the full
// board; with page, page_size (or its alias limit) or search it returns a
// filtered page.
func (h *LeaderboardHandler) Get(c *drift.Context) {
	ctx := context.Background()

	pageStr := c.QueryParam("page")
	sizeStr := c.QueryParam("page_size")
	if sizeStr == "" {
		sizeStr = c.QueryParam("limit")
	}
	search := c.QueryParam("search")

	if pageStr == "" && sizeStr == "" && search == "" {
		board, err := h.leaderboardService.Full(ctx)
		if err != nil {
			fail(c, 500, "failed to load leaderboard")
			return
		}
		ok(c, 200, board)
		return
	}

	page := 1
	if pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			fail(c, 400, "page must be a positive integer")
			return
		}
	}

	pageSize := h.defaultPageSize
	if sizeStr != "" {
		var err error
		pageSize, err = strconv.Atoi(sizeStr)
		if err != nil || pageSize < 1 {
			fail(c, 400, "page_size must be a positive integer")
			return
		}
	}
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	board, err := h.leaderboardService.Paginated(ctx, page, pageSize, search)
	if err != nil {
		fail(c, 500, "failed to load leaderboard")
		return
	}
	ok(c, 200, board)
}

// Top serves the podium.
func (h *LeaderboardHandler) Top(c *drift.Context) {
	podium, err := h.leaderboardService.Podium(context.Background())
	if err != nil {
		fail(c, 500, "failed to load podium")
		return
	}
	if podium == nil {
		podium = []services.RankedTeam{}
	}
	ok(c, 200, podium)
}

// Position serves a team's rank with surrounding context. The context query
// parameter controls how many neighbors to include on each side.
func (h *LeaderboardHandler) Position(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, 400, "invalid team id")
		return
	}

	contextSize := 2
	if s := c.QueryParam("context"); s != "" {
		contextSize, err = strconv.Atoi(s)
		if err != nil || contextSize < 0 {
			fail(c, 400, "context must be a non-negative integer")
			return
		}
	}

	position, err := h.leaderboardService.Position(context.Background(), teamID, contextSize)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			fail(c, 404, "team not found")
			return
		}
		fail(c, 500, "failed to load team position")
		return
	}
	ok(c, 200, position)
}

// Stats serves contest-wide aggregates plus the latest activity entries.
func (h *LeaderboardHandler) Stats(c *drift.Context) {
	ctx := context.Background()

	stats, err := h.leaderboardService.Stats(ctx)
	if err != nil {
		fail(c, 500, "failed to load stats")
		return
	}

	stats.RecentActivities, err = h.scoreService.RecentActivities(ctx, 10)
	if err != nil {
		fail(c, 500, "failed to load stats")
		return
	}
	if stats.RecentActivities == nil {
		stats.RecentActivities = []models.Activity{}
	}

	ok(c, 200, stats)
}

// ExportCSV streams the standings as a CSV attachment.
func (h *LeaderboardHandler) ExportCSV(c *drift.Context) {
	data, filename, err := h.exportService.CSV(context.Background())
	if err != nil {
		fail(c, 500, "failed to export leaderboard")
		return
	}

	c.Response.Header().Set("Content-Type", "text/csv; charset=utf-8")
	c.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Response.WriteHeader(200)
	_, _ = c.Response.Write(data)
}

// ExportJSON serves a point-in-time snapshot of the standings.
func (h *LeaderboardHandler) ExportJSON(c *drift.Context) {
	snapshot, err := h.exportService.Snapshot(context.Background())
	if err != nil {
		fail(c, 500, "failed to export leaderboard")
		return
	}
	ok(c, 200, snapshot)
}
