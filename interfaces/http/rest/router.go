package rest

import (
	"net/http"

	"notebookmark-backend/application/services"
	"notebookmark-backend/interfaces/http/rest/handlers"
	"notebookmark-backend/interfaces/http/rest/middleware"
	"notebookmark-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	storage *services.StorageService
	scraper handlers.PostExtractor
	intro   handlers.IntroService
	logger  *zap.Logger
}

// NewRouter creates a new router instance. intro may be nil when no API key
// is configured.
func NewRouter(
	storage *services.StorageService,
	scraper handlers.PostExtractor,
	intro handlers.IntroService,
	logger *zap.Logger,
) *Router {
	return &Router{
		storage: storage,
		scraper: scraper,
		intro:   intro,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)

	router.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			postHandler := handlers.NewPostHandler(rt.storage, rt.scraper, rt.logger)
			r.Get("/", postHandler.ListUnread)
			r.Get("/read", postHandler.ListRead)
			r.Get("/{id}", postHandler.Get)
			r.Post("/", postHandler.Save)
			r.Post("/extractPostDetails", postHandler.ExtractPostDetails)
			r.Delete("/{id}", postHandler.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			noteHandler := handlers.NewNoteHandler(rt.storage, rt.logger)
			r.Post("/note", noteHandler.Create)
			r.Get("/", noteHandler.List)
			r.Get("/GetNotesForSummary/{readingNotesID}", noteHandler.NotesForSummary)
			r.Post("/SaveReadingNotes", noteHandler.SaveReadingNotes)
			r.Get("/UpdatePostReadStatus", noteHandler.UpdatePostReadStatus)
		})

		r.Route("/summary", func(r chi.Router) {
			summaryHandler := handlers.NewSummaryHandler(rt.storage, rt.logger)
			r.Get("/", summaryHandler.List)
			r.Get("/{number}", summaryHandler.GetReadingNotes)
			r.Post("/summary", summaryHandler.Save)
			r.Post("/{number}/markdown", summaryHandler.SaveMarkdown)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(rt.storage, rt.logger)
			r.Get("/", settingsHandler.Get)
			r.Post("/SaveSettings", settingsHandler.Save)
			r.Get("/GetNextReadingNotesCounter", settingsHandler.NextCounter)
		})

		r.Route("/ai", func(r chi.Router) {
			aiHandler := handlers.NewAIHandler(rt.storage, rt.intro, rt.logger)
			r.Post("/GenerateIntro", aiHandler.GenerateIntro)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
