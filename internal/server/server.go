package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/drafts"
	"github.com/claude/liftboard/internal/schedule"
	"github.com/claude/liftboard/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   store.Store
	auth    store.Authenticator
	drafts  *drafts.DB
	deriver *analytics.Deriver
	editor  schedule.Editor
	whois   WhoIsClient
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(st store.Store, d *drafts.DB, deriver *analytics.Deriver, editor schedule.Editor, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   st,
		drafts:  d,
		deriver: deriver,
		editor:  editor,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetAuthenticator enables the /api/v1/auth endpoints.
func (s *Server) SetAuthenticator(a store.Authenticator) {
	s.auth = a
}

// SetTailscale identifies callers through the tailnet instead of the dev
// identity. Call it before serving.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.whois = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.identity)
	r.Use(RequestLogging(s.log))
	r.Use(Metrics)
	r.Use(CORS)
	r.Use(BearerToken)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(APIKeyAuth(s.apiKey)).Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/whoami", s.handleWhoAmI)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", s.handleDashboard)
			r.Get("/stats", s.handleStats)
			r.Get("/muscle-groups", s.handleMuscleGroups)
			r.Get("/recent", s.handleRecentWorkouts)
			r.Get("/weekly", s.handleWeeklyVolume)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", s.handleListSchedules)
			r.Post("/", s.handleCreateSchedule)
			r.Get("/{id}", s.handleGetSchedule)
			r.Patch("/{id}", s.handleRenameSchedule)
			r.Delete("/{id}", s.handleDeleteSchedule)
			r.Post("/{id}/edits", s.handleOpenEdit)
		})

		r.Route("/edits/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetEdit)
			r.Delete("/", s.handleDiscardEdit)
			r.Post("/save", s.handleSaveEdit)
			r.Route("/workouts/{w}/exercises", func(r chi.Router) {
				r.Post("/", s.handleAddExercise)
				r.Delete("/{x}", s.handleRemoveExercise)
				r.Put("/{x}/name", s.handleRenameExercise)
				r.Post("/{x}/sets", s.handleAddSet)
				r.Delete("/{x}/sets/{i}", s.handleRemoveSet)
				r.Patch("/{x}/sets/{i}", s.handleUpdateSet)
			})
		})

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", s.handleListExercises)
			r.Post("/", s.handleCreateExercise)
			r.Get("/{id}", s.handleGetExercise)
			r.Put("/{id}", s.handleUpdateExercise)
			r.Delete("/{id}", s.handleDeleteExercise)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Get("/me", s.handleMe)
		})
	})
}

// MountMCP serves an MCP transport at /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}
