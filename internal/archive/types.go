package archive

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// ErrRoundNotFound is returned when no round has the requested id.
var ErrRoundNotFound = errors.New("round not found")

// DefaultLimit is the number of rounds listed when the caller gives none.
const DefaultLimit = 50

// store handles all database operations for the round archive.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Pairing is one team pairing of a round.
type Pairing struct {
	Team1ID     int `json:"team1Id"`
	Team2ID     int `json:"team2Id"`
	Coach1ID    int `json:"coach1Id"`
	Coach2ID    int `json:"coach2Id"`
	Suitability int `json:"suitability"`
}

// RoundRecord is an archived round.
type RoundRecord struct {
	ID             string    `json:"id"`
	DrawnAt        time.Time `json:"drawnAt"`
	DurationMs     int64     `json:"durationMs"`
	Coaches        int       `json:"coaches"`
	Heuristic      string    `json:"heuristic"`
	Score          int       `json:"score"`
	CandidateCount int       `json:"candidateCount"`
	ChosenCount    int       `json:"chosenCount"`
	Candidates     []Pairing `json:"candidates,omitempty"`
	Chosen         []Pairing `json:"chosen"`
}
