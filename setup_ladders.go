package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// One-off setup script: creates the schema and seeds the three ladders.
// Run with: go run setup_ladders.go

const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS players (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT UNIQUE,
    pin_hash TEXT,
    ladder_name TEXT NOT NULL,
    position INTEGER NOT NULL,
    rating INTEGER NOT NULL,
    wins INTEGER NOT NULL DEFAULT 0,
    losses INTEGER NOT NULL DEFAULT 0,
    total_matches INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT true,
    is_suspended BOOLEAN NOT NULL DEFAULT false,
    suspension_reason TEXT,
    suspended_until TIMESTAMPTZ,
    vacation_mode BOOLEAN NOT NULL DEFAULT false,
    vacation_until TIMESTAMPTZ,
    immunity_until TIMESTAMPTZ,
    is_admin BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_players_ladder_position ON players (ladder_name, position) WHERE is_active;

CREATE TABLE IF NOT EXISTS challenges (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    challenge_type TEXT NOT NULL,
    challenger_id UUID NOT NULL REFERENCES players(id),
    defender_id UUID NOT NULL REFERENCES players(id),
    status TEXT NOT NULL DEFAULT 'pending',
    entry_fee INTEGER NOT NULL,
    race_length INTEGER NOT NULL,
    game_type TEXT NOT NULL,
    table_size TEXT NOT NULL,
    preferred_dates JSONB,
    counter_entry_fee INTEGER,
    counter_race_length INTEGER,
    counter_game_type TEXT,
    counter_table_size TEXT,
    counter_preferred_dates JSONB,
    agreed_date TIMESTAMPTZ,
    deadline TIMESTAMPTZ NOT NULL,
    message TEXT,
    response_note TEXT,
    accepted_at TIMESTAMPTZ,
    cancel_reason TEXT,
    cancelled_by UUID,
    cancelled_at TIMESTAMPTZ,
    is_admin_created BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_challenges_parties ON challenges (challenger_id, defender_id, status);

CREATE TABLE IF NOT EXISTS matches (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    challenge_id UUID NOT NULL REFERENCES challenges(id),
    match_type TEXT NOT NULL,
    challenger_id UUID NOT NULL REFERENCES players(id),
    defender_id UUID NOT NULL REFERENCES players(id),
    challenger_ladder TEXT NOT NULL,
    defender_ladder TEXT NOT NULL,
    challenger_old_position INTEGER,
    challenger_new_position INTEGER,
    defender_old_position INTEGER,
    defender_new_position INTEGER,
    status TEXT NOT NULL DEFAULT 'scheduled',
    winner_id UUID,
    loser_id UUID,
    score TEXT,
    immunity_granted BOOLEAN NOT NULL DEFAULT false,
    scheduled_date TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ,
    reported_by UUID,
    venue TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_matches_challenge ON matches (challenge_id);
`

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	err = db.Ping()
	if err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("✅ Connected to database successfully!")

	_, err = db.Exec(schema)
	if err != nil {
		log.Fatal("Failed to create schema:", err)
	}

	fmt.Println("✅ Schema created successfully!")

	// Seed the league admin if nobody exists yet
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count)
	if err != nil {
		log.Fatal("Failed to count players:", err)
	}

	if count == 0 {
		_, err = db.Exec(`
			INSERT INTO players (first_name, last_name, email, ladder_name, position, rating, is_admin)
			VALUES ('League', 'Admin', 'admin@poolladder.local', '550-plus', 1, 600, true)
		`)
		if err != nil {
			log.Fatal("Failed to seed admin player:", err)
		}
		fmt.Println("✅ League admin seeded (set a PIN before going live)!")
	}

	// Show current ladder occupancy
	fmt.Println("\n📋 Ladder occupancy:")
	rows, err := db.Query(`
		SELECT ladder_name, COUNT(*)
		FROM players
		WHERE is_active
		GROUP BY ladder_name
		ORDER BY ladder_name
	`)
	if err != nil {
		log.Fatal("Failed to query ladders:", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ladder string
		var n int
		if err := rows.Scan(&ladder, &n); err != nil {
			log.Fatal("Failed to scan row:", err)
		}
		fmt.Printf("  - %s: %d players\n", ladder, n)
	}
}
