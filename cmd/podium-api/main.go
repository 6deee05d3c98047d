package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/podiumlabs/podium-api/internal/config"
	"github.com/podiumlabs/podium-api/internal/database"
	"github.com/podiumlabs/podium-api/internal/handlers"
	authmw "github.com/podiumlabs/podium-api/internal/middleware"
	"github.com/podiumlabs/podium-api/internal/services"
	"github.com/podiumlabs/podium-api/internal/sse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	teamService := services.NewTeamService(db)
	scoreService := services.NewScoreService(db)
	leaderboardService := services.NewLeaderboardService(db)
	exportService := services.NewExportService(leaderboardService)
	challengeService := services.NewChallengeService(db, scoreService)

	hub := sse.NewHub()
	go hub.Run()

	teamHandler := handlers.NewTeamHandler(teamService, scoreService, hub, cfg.DefaultPageSize, cfg.MaxPageSize)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, exportService, scoreService, cfg.DefaultPageSize, cfg.MaxPageSize)
	challengeHandler := handlers.NewChallengeHandler(challengeService, hub)
	sseHandler := handlers.NewSSEHandler(hub)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	// Public read surface: spectators need no credentials.
	api.Get("/leaderboard", leaderboardHandler.Get)
	api.Get("/leaderboard/top", leaderboardHandler.Top)
	api.Get("/leaderboard/stats", leaderboardHandler.Stats)
	api.Get("/leaderboard/export", leaderboardHandler.ExportCSV)
	api.Get("/leaderboard/export/json", leaderboardHandler.ExportJSON)
	api.Get("/leaderboard/events", sseHandler.Connect)

	api.Get("/teams", teamHandler.List)
	api.Get("/teams/search", teamHandler.Search)
	api.Get("/teams/:id", teamHandler.Get)
	api.Get("/teams/:id/position", leaderboardHandler.Position)
	api.Get("/teams/:id/activities", teamHandler.Activities)

	api.Get("/challenges", challengeHandler.List)
	api.Get("/challenges/:id", challengeHandler.Get)

	// Mutations require an admin token.
	admin := api.Group("")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.RequireAdmin())

	admin.Post("/teams", teamHandler.Create)
	admin.Patch("/teams/:id", teamHandler.Update)
	admin.Delete("/teams/:id", teamHandler.Delete)
	admin.Patch("/teams/:id/score", teamHandler.UpdateScore)
	admin.Post("/teams/reset-scores", teamHandler.ResetScores)

	admin.Post("/challenges", challengeHandler.Create)
	admin.Patch("/challenges/:id", challengeHandler.Update)
	admin.Delete("/challenges/:id", challengeHandler.Delete)
	admin.Post("/challenges/:id/complete", challengeHandler.Complete)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Periodic standings push keeps idle dashboards in sync even when no
	// mutation has fired recently.
	go func() {
		ticker := time.NewTicker(cfg.LeaderboardPushInterval)
		for range ticker.C {
			if hub.ClientCount() == 0 {
				continue
			}
			board, err := leaderboardService.Full(context.Background())
			if err != nil {
				continue
			}
			hub.BroadcastLeaderboardUpdated(board)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
