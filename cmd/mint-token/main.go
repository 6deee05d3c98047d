package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/podiumlabs/podium-api/internal/config"
	"github.com/podiumlabs/podium-api/internal/services"
)

// Mints an admin access token for the score mutation endpoints. Meant for
// contest operators; the API has no signup flow of its own.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: mint-token <email>")
		os.Exit(1)
	}

	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)

	token, err := jwtService.GenerateAccessToken(uuid.New(), email, services.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
