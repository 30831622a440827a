package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/gamefinder/internal/archive"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/database"
	"github.com/mauv0809/gamefinder/internal/model"
)

var rosters = []string{"Human", "Orc", "Dwarf", "Skaven", "Wood Elf", "Lizardmen", "Undead", "Chaos Dwarf"}

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "gamefinder.db",
		"MIGRATIONS_DIR":    "migrations",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
		"SEED_ROUNDS":       "20",
		"SEED_COACHES":      "40",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func atoi(cfg map[string]string, key string) int {
	n, err := strconv.Atoi(cfg[key])
	if err != nil || n <= 0 {
		log.Fatalf("Error: %s must be a positive integer, got %q", key, cfg[key])
	}
	return n
}

func main() {
	log.Info("Starting blackbox round seeder...")
	cfg := loadConfig()
	numRounds := atoi(cfg, "SEED_ROUNDS")
	numCoaches := atoi(cfg, "SEED_COACHES")

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	rounds := archive.New(db)
	startTime := time.Now()
	drawnAt := startTime.Add(-time.Duration(numRounds) * (blackbox.DefaultActive + blackbox.DefaultPaused))

	for i := 0; i < numRounds; i++ {
		drawnAt = drawnAt.Add(blackbox.DefaultActive + blackbox.DefaultPaused)
		at := drawnAt
		gen := blackbox.NewGenerator(blackbox.Jitter, blackbox.WithNow(func() time.Time { return at }))

		round, err := gen.Generate(context.Background(), roster(numCoaches))
		if err != nil {
			log.Fatalf("Failed to generate round %d: %s", i+1, err)
		}
		if err := rounds.ReportRound(context.Background(), round); err != nil {
			log.Fatalf("Failed to store round %d: %s", i+1, err)
		}
		log.Info("Inserted round", "completed", i+1, "total", numRounds, "matches", len(round.Chosen), "score", round.Score)
	}

	log.Info("Successfully inserted all seeded rounds.", "duration", time.Since(startTime))
}

// roster builds a random set of activated coaches with one to three
// competitive teams each.
func roster(numCoaches int) []blackbox.Activation {
	activations := make([]blackbox.Activation, 0, numCoaches)
	teamID := 1
	for c := 1; c <= numCoaches; c++ {
		if rand.IntN(4) == 0 {
			continue
		}
		coach := &model.Coach{ID: c, Name: fmt.Sprintf("Seeder Coach %d", c), Rating: "150", CanLfg: true}
		teams := make([]*model.Team, 1+rand.IntN(3))
		for i := range teams {
			tv := 1000 + 10*rand.IntN(100)
			teams[i] = &model.Team{
				ID:                  teamID,
				Coach:               coach,
				Name:                fmt.Sprintf("Seeded Team %d", teamID),
				Division:            model.CompetitiveDivision,
				TeamValue:           tv,
				CurrentTeamValue:    tv,
				SchedulingTeamValue: tv,
				Season:              2 + rand.IntN(3),
				SeasonGames:         rand.IntN(15),
				Roster:              rosters[rand.IntN(len(rosters))],
				RulesetID:           4,
				IsActive:            true,
				LfgMode:             model.LfgMixed,
			}
			teamID++
		}
		activations = append(activations, blackbox.Activation{Coach: coach, Teams: teams})
	}
	return activations
}
