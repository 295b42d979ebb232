package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/leaguedesk/leaguedesk/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	exportHandler *handlers.ExportHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateTournamentHandler)
		r.Get("/", tournamentHandler.ListTournamentsHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetTournamentHandler)
			r.Delete("/", tournamentHandler.DeleteTournamentHandler)
			r.Patch("/settings", tournamentHandler.UpdateSettingsHandler)
			r.Post("/phase", tournamentHandler.SetPhaseHandler)

			r.Post("/participants", participantHandler.AddParticipantHandler)
			r.Delete("/participants/{participantID}", participantHandler.RemoveParticipantHandler)

			r.Put("/results/{p1}/{p2}", matchHandler.RecordResultHandler)
			r.Delete("/results/{p1}/{p2}", matchHandler.ClearResultHandler)

			r.Get("/standings", tournamentHandler.GetStandingsHandler)
			r.Get("/schedule", tournamentHandler.GetScheduleHandler)

			r.Get("/export/text", exportHandler.GetTextSummaryHandler)
			r.Post("/export/image", exportHandler.UploadImageHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
}
