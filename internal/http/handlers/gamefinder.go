package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
)

func ActivateHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coachID, err := intParam(r, "coachId")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := gf.Activate(r.Context(), coachID); err != nil {
			fail(w, "Failed to activate coach", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ActivatedTeamsHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coachID, err := intParam(r, "coachId")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		teams, err := gf.ActivatedTeams(r.Context(), coachID)
		if err != nil {
			fail(w, "Failed to get teams", err)
			return
		}
		writeJSON(w, teams)
	}
}

func OpponentsHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opponents, err := gf.Opponents(r.Context())
		if err != nil {
			fail(w, "Failed to get opponents", err)
			return
		}
		writeJSON(w, opponents)
	}
}

func OffersHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coachID, err := intParam(r, "coachId")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		offers, err := gf.Offers(r.Context(), coachID)
		if err != nil {
			fail(w, "Failed to get offers", err)
			return
		}
		writeJSON(w, offers)
	}
}

func StateHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coachID, err := intParam(r, "coachId")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		state, err := gf.State(r.Context(), coachID)
		if err != nil {
			fail(w, "Failed to get state", err)
			return
		}
		writeJSON(w, state)
	}
}

type teamAction func(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error)

// ActionHandler serves make-offer, cancel-offer and start-game.
func ActionHandler(name string, act teamAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := intParams(r, "coachId", "myTeamId", "opponentTeamId")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		changed, err := act(r.Context(), ids[0], ids[1], ids[2])
		if err != nil {
			fail(w, "Failed to "+name, err)
			return
		}
		log.Debug("Team action", "action", name, "coach", ids[0], "team", ids[1], "opponent", ids[2], "changed", changed)
		writeJSON(w, actionResult{Changed: changed})
	}
}
