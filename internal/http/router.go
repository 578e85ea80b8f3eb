package http

import (
	"net/http"

	"ritu/internal/auth"
	"ritu/internal/community"
	"ritu/internal/config"
	"ritu/internal/flags"
	"ritu/internal/http/handler"
	mw "ritu/internal/http/middleware"
	"ritu/internal/routine"
	"ritu/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	JWT       *auth.JWT
	Routines  *routine.Service
	Users     user.Repository
	Community *community.Service
	Flags     *flags.Service
}

func NewRouter(cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	requireAuth := auth.RequireAuth(deps.JWT, cfg.AllowDevImpersonation)

	rh := &handler.RoutineHandler{Svc: deps.Routines}
	r.Route("/v1/routines", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/", rh.List)
		r.Post("/", rh.Create)
		r.Get("/{id}", rh.Get)
		r.Patch("/{id}", rh.Update)
		r.Delete("/{id}", rh.Delete)
		r.Post("/{id}/restore", rh.Restore)

		r.Get("/{id}/completions", rh.ListCompletions)
		r.Post("/{id}/completions", rh.AddCompletion)
		r.Delete("/{id}/completions/{date}", rh.RemoveCompletion)
	})

	uh := &handler.UserHandler{Users: deps.Users}
	r.Route("/v1/users", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/me", uh.Me)
		r.Patch("/me", uh.UpdateMe)
	})

	ch := &handler.CommunityHandler{Svc: deps.Community}
	r.Route("/v1/community", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/posts", ch.Feed)
		r.Post("/posts", ch.CreatePost)
		r.Post("/posts/{id}/like", ch.ToggleLike)
		r.Get("/posts/{id}/comments", ch.ListComments)
		r.Post("/posts/{id}/comments", ch.AddComment)
	})

	fh := &handler.FlagsHandler{Svc: deps.Flags}
	r.With(requireAuth).Get("/v1/feature-flags", fh.Flags)

	return r
}
