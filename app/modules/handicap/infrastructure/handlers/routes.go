package handicaphandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the handicap API on r. Write endpoints are wrapped in auth.
func RegisterRoutes(r chi.Router, h Handlers, auth func(http.Handler) http.Handler) {
	r.Route("/players/{playerID}/handicap", func(r chi.Router) {
		r.Get("/", h.HandleGetHandicap)
		r.Get("/history", h.HandleGetHandicapHistory)
		r.Get("/chart.png", h.HandleHandicapChart)
		r.With(auth).Post("/recalculate", h.HandleRecalculateHandicap)
	})

	r.Route("/rounds", func(r chi.Router) {
		r.Get("/{roundID}/scorecard", h.HandleGetScorecard)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", h.HandleRecordRound)
			r.Delete("/{roundID}", h.HandleDeleteRound)
		})
	})

	r.Route("/courses/{courseID}", func(r chi.Router) {
		r.Get("/leaderboard", h.HandleLeaderboard)
		r.Get("/leaderboard.xlsx", h.HandleLeaderboardExport)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Put("/", h.HandleUpsertCourse)
			r.Post("/scorecards", h.HandleImportScorecard)
		})
	})
}
