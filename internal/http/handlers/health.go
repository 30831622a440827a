package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
)

func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ResetHandler empties the live graph.
func ResetHandler(gf Gamefinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to reset the gamefinder")
		if err := gf.Reset(r.Context()); err != nil {
			fail(w, "Failed to reset gamefinder", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Gamefinder reset!")
	}
}
