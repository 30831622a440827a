package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mauv0809/gamefinder/internal/archive"
	"github.com/mauv0809/gamefinder/internal/http/handlers"
	"github.com/mauv0809/gamefinder/internal/metrics"
	"github.com/rs/cors"
)

// NewServer wires the routes. Browser clients from allowedOrigins may call
// the gamefinder endpoints directly.
func NewServer(gf handlers.Gamefinder, rounds archive.RoundStore, counters metrics.MetricsStore, metricsHandler http.Handler, allowedOrigins []string) *Server {
	server := &Server{
		Gamefinder:     gf,
		Rounds:         rounds,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Router:         mux.NewRouter(),
	}

	server.routes()
	server.handler = cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(server.Router)
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler).Methods(http.MethodGet)
	s.Router.Handle("/health", Chain(handlers.HealthCheckHandler(), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/stats", Chain(handlers.StatsHandler(s.Counters), paramsMiddleware)).Methods(http.MethodGet)

	// Registered with full paths so a wrong method answers 405, not 404.
	s.Router.Handle("/gamefinder/activate", Chain(handlers.ActivateHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/teams", Chain(handlers.ActivatedTeamsHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/opponents", Chain(handlers.OpponentsHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/offers", Chain(handlers.OffersHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/state", Chain(handlers.StateHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/make-offer", Chain(handlers.ActionHandler("make offer", s.Gamefinder.MakeOffer), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/cancel-offer", Chain(handlers.ActionHandler("cancel offer", s.Gamefinder.CancelOffer), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/gamefinder/start-game", Chain(handlers.ActionHandler("start game", s.Gamefinder.StartGame), paramsMiddleware)).Methods(http.MethodPost)

	s.Router.Handle("/blackbox/state", Chain(handlers.BlackboxStateHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/blackbox/rounds", Chain(handlers.ListRoundsHandler(s.Rounds), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/blackbox/rounds/{id}", Chain(handlers.GetRoundHandler(s.Rounds), paramsMiddleware)).Methods(http.MethodGet)

	s.Router.Handle("/admin/reset", Chain(handlers.ResetHandler(s.Gamefinder), paramsMiddleware)).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
