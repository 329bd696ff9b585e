package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/noteshub/noteshub/internal/config"
	"github.com/noteshub/noteshub/internal/http/handlers"
	"github.com/noteshub/noteshub/internal/http/middlewares"
	"github.com/noteshub/noteshub/internal/observability"
	"github.com/noteshub/noteshub/internal/repo/memory"
	"github.com/noteshub/noteshub/internal/repo/postgres"
)

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	prom *observability.Prom,
	gatherer prometheus.Gatherer,
	cfg config.Config,
	version handlers.VersionInfo,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("noteshub"))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	if cfg.RateLimit > 0 {
		limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		r.Use(limiter.Middleware())
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	// wire up repositories; without a pool the service runs on the in-memory
	// store (dev convenience)
	var notesRepo handlers.NotesStore
	var usersRepo handlers.UsersStore

	if pool != nil {
		notesRepo = postgres.NewNotesRepo(pool, prom)
		usersRepo = postgres.NewUsersRepo(pool, prom)
	} else {
		store := memory.NewStore()
		notesRepo = store.Notes()
		usersRepo = store.Users()
	}

	healthHandler := handlers.NewHealthHandler(ping)
	notesHandler := handlers.NewNotesHandler(notesRepo)
	usersHandler := handlers.NewUsersHandler(usersRepo)

	// Routes
	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/version", handlers.VersionHandler(version))

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/users", usersHandler.CreateUser)
	r.GET("/users", usersHandler.ListUsers)
	r.GET("/users/:id", usersHandler.GetUserByID)
	r.DELETE("/users/:id", usersHandler.DeleteUser)

	r.POST("/notes", notesHandler.CreateNote)
	r.GET("/notes", notesHandler.ListNotes)
	r.GET("/notes/:id", notesHandler.GetNoteByID)
	r.PUT("/notes/:id", notesHandler.UpdateNote)
	r.PATCH("/notes/:id", notesHandler.UpdateNote)
	r.DELETE("/notes/:id", notesHandler.DeleteNote)

	return r
}
