package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventMatchLaunched EventType = "gamefinder-match-launched"
	EventBlackboxRound EventType = "blackbox-round"
)

// MatchLaunched is published when two coaches agreed on a game and the API
// has been asked to schedule it.
type MatchLaunched struct {
	Team1ID         int       `msgpack:"team1Id"`
	Team1Name       string    `msgpack:"team1Name"`
	Coach1ID        int       `msgpack:"coach1Id"`
	Team2ID         int       `msgpack:"team2Id"`
	Team2Name       string    `msgpack:"team2Name"`
	Coach2ID        int       `msgpack:"coach2Id"`
	GameID          int       `msgpack:"gameId"`
	SchedulingError string    `msgpack:"schedulingError,omitempty"`
	LaunchedAt      time.Time `msgpack:"launchedAt"`
}

// BlackboxRound is published after every draw.
type BlackboxRound struct {
	ID         string        `msgpack:"id"`
	DrawnAt    time.Time     `msgpack:"drawnAt"`
	Coaches    int           `msgpack:"coaches"`
	Heuristic  string        `msgpack:"heuristic"`
	Score      int           `msgpack:"score"`
	Candidates int           `msgpack:"candidates"`
	Pairings   []TeamPairing `msgpack:"pairings"`
}

type TeamPairing struct {
	Team1ID     int `msgpack:"team1Id"`
	Team2ID     int `msgpack:"team2Id"`
	Suitability int `msgpack:"suitability"`
}
