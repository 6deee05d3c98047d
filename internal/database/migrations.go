package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(100) UNIQUE NOT NULL,
		description TEXT,
		avatar VARCHAR(500),
		members TEXT[] NOT NULL DEFAULT '{}',
		color VARCHAR(30),
		score INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS challenges (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		points INTEGER NOT NULL CHECK (points > 0),
		difficulty VARCHAR(20) NOT NULL DEFAULT 'MEDIUM',
		category VARCHAR(100) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		start_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		end_date TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Append-only ledger of point-affecting events. Rows are never updated;
	// the reset operation is the only bulk delete. Team deletion cascades so
	// the ledger-sum invariant stays meaningful for surviving teams.
	`CREATE TABLE IF NOT EXISTS activities (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		challenge_id UUID REFERENCES challenges(id) ON DELETE SET NULL,
		actor_id UUID,
		points INTEGER NOT NULL CHECK (points <> 0),
		kind VARCHAR(30) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_team_id ON activities(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_challenge_id ON activities(challenge_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_score ON teams(score DESC, created_at ASC)`,
	`CREATE INDEX IF NOT EXISTS idx_challenges_is_active ON challenges(is_active)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
