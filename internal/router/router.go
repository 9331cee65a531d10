package router

import (
	"database/sql"
	"net/http"

	mem "pet-sync/internal/adapters/storage/memory"
	pg "pet-sync/internal/adapters/storage/postgres"
	"pet-sync/internal/domain/pets"
	"pet-sync/internal/middleware"
	"pet-sync/internal/platform/logger"
	"pet-sync/internal/ports/auth"
	"pet-sync/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-sync/docs"
)

// Options del backend (GraphQL de pets + REST de razas).
type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := base(opts.Logger)

	var petRepo pets.Repository
	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
	}
	petsSvc := pets.NewService(petRepo)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.AuthContext(opts.AuthVerifier))
		pr.Use(middleware.RequireClaims)
		pets.RegisterRoutes(pr, petsSvc)
	})

	return r
}

// SessionOptions de la api que hostea las sesiones de vista.
type SessionOptions struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger
	Manager      *session.Manager
}

func NewSessionRouter(opts SessionOptions) http.Handler {
	r := base(opts.Logger)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(sr chi.Router) {
		sr.Use(middleware.AuthContext(opts.AuthVerifier))
		sr.Use(middleware.RequireClaims)
		session.RegisterRoutes(sr, opts.Manager)
	})

	return r
}

func base(log logger.Logger) chi.Router {
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
