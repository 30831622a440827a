package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mauv0809/gamefinder/internal/archive"
	"github.com/mauv0809/gamefinder/internal/metrics"
)

// BlackboxStateHandler reports the cycle phase; coachId is optional.
func BlackboxStateHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coachID, _ := strconv.Atoi(r.URL.Query().Get("coachId"))
		state, err := gf.BlackboxState(r.Context(), coachID)
		if err != nil {
			fail(w, "Failed to get blackbox state", err)
			return
		}
		writeJSON(w, state)
	}
}

func ListRoundsHandler(rounds archive.RoundStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil {
			limit = archive.DefaultLimit
		}
		records, err := rounds.Rounds(r.Context(), limit)
		if err != nil {
			fail(w, "Failed to get rounds", err)
			return
		}
		writeJSON(w, records)
	}
}

func GetRoundHandler(rounds archive.RoundStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := rounds.Round(r.Context(), mux.Vars(r)["id"])
		if errors.Is(err, archive.ErrRoundNotFound) {
			http.Error(w, "Round not found", http.StatusNotFound)
			return
		}
		if err != nil {
			fail(w, "Failed to get round", err)
			return
		}
		writeJSON(w, record)
	}
}

// StatsHandler lists the counters kept across restarts.
func StatsHandler(counters metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := counters.GetAll()
		if err != nil {
			fail(w, "Failed to get stats", err)
			return
		}
		writeJSON(w, all)
	}
}
