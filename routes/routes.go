package routes

import (
	"net/http"

	_ "github.com/Dosada05/tournament-engine/docs"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Клиент подписывается на комнату tournament_{id}
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/teams", func(r chi.Router) {
			r.Get("/{teamID}", teamHandler.GetTeamByID)
			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Post("/", teamHandler.CreateTeam)
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты для просмотра турниров
			r.Get("/", tournamentHandler.ListTournaments)
			r.Get("/{tournamentID}", tournamentHandler.GetTournamentByID)
			r.Get("/{tournamentID}/matches", tournamentHandler.ListMatches)
			r.Get("/{tournamentID}/bracket", tournamentHandler.GetBracket)

			// Защищенные маршруты только для организаторов
			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Post("/", tournamentHandler.CreateTournament)
				r.Post("/{tournamentID}/teams", tournamentHandler.RegisterTeam)
				r.Post("/{tournamentID}/draw/preview", tournamentHandler.PreviewDraw)
				r.Post("/{tournamentID}/draw/commit", tournamentHandler.CommitDraw)
				r.Post("/{tournamentID}/promote", tournamentHandler.PromoteToKnockout)
			})
		})

		r.Get("/groups/{groupID}/standings", matchHandler.GetGroupStandings)

		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Put("/matches/{matchID}/result", matchHandler.RecordResult)
		})
	})
}
