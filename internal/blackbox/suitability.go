package blackbox

import (
	"math"
	"math/rand/v2"

	"github.com/mauv0809/gamefinder/internal/model"
)

// Random is the jitter source of the suitability score.
type Random interface {
	Float64() float64
}

const (
	jitter           = 0.02
	largeGapTv       = 50.0
	repeatPenalty    = 0.9
	rookieMixPenalty = 0.8
)

// Suitability rates how even and desirable a game between the two teams is,
// from 0 to 1000. Close team values score high; playing the same coach
// again or pairing a first season team against a veteran one scores lower.
func Suitability(team1, team2 *model.Team, rnd Random) int {
	tvMin := float64(team1.SchedulingTeamValue)
	tvMax := float64(team2.SchedulingTeamValue)
	if tvMin > tvMax {
		tvMin, tvMax = tvMax, tvMin
	}

	deltaTv := 1000 * (tvMax/tvMin - 1)
	if deltaTv > largeGapTv {
		deltaTv = deltaTv*3 - 100
	}
	winProbability := 1 / (math.Pow(10, deltaTv/700) + 1)

	distance := math.Abs(winProbability - 0.5)
	distance = (distance + rnd.Float64()*jitter) / 0.52
	suitability := 1000 * (1 - distance)

	repeat := 1.0
	if team1.LastOpponent == team2.CoachID() || team2.LastOpponent == team1.CoachID() {
		repeat = repeatPenalty
	}
	rookie := 1.0
	if (team1.Season == 1) != (team2.Season == 1) {
		rookie = rookieMixPenalty
	}

	return int(math.Floor(suitability * repeat * rookie))
}

type zeroRandom struct{}

func (zeroRandom) Float64() float64 { return 0 }

// NoJitter is a Random that always returns 0, making scores reproducible.
var NoJitter Random = zeroRandom{}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// Jitter draws from the process-wide source and is safe for concurrent use.
var Jitter Random = globalRandom{}
