package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mauv0809/gamefinder/internal/archive"
	"github.com/mauv0809/gamefinder/internal/http/handlers"
	"github.com/mauv0809/gamefinder/internal/metrics"
)

type Server struct {
	Gamefinder     handlers.Gamefinder
	Rounds         archive.RoundStore
	Counters       metrics.MetricsStore
	MetricsHandler http.Handler
	Router         *mux.Router
	handler        http.Handler
}
