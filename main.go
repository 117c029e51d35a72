// Portfolio API server entry point: loads configuration, connects the
// database, wires services and handlers, mounts the router and runs the HTTP
// server with graceful shutdown.
//
// @title Portfolio API
// @version 1.0
// @description REST backend for a personal portfolio site.
// @BasePath /api/v1
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/portfolio-api/auth"
	"github.com/user/portfolio-api/blogs"
	"github.com/user/portfolio-api/cache"
	"github.com/user/portfolio-api/config"
	"github.com/user/portfolio-api/db"
	_ "github.com/user/portfolio-api/docs"
	"github.com/user/portfolio-api/models"
	"github.com/user/portfolio-api/projects"
	"github.com/user/portfolio-api/ratelimit"
	"github.com/user/portfolio-api/respond"
	"github.com/user/portfolio-api/resumes"
	"github.com/user/portfolio-api/stats"
	"github.com/user/portfolio-api/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Server.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	gdb, pool, err := db.Connect(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(gdb); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}
	if err := db.SeedAdmin(gdb, cfg.Admin, cfg.Auth); err != nil {
		logrus.WithError(err).Fatal("failed to seed admin account")
	}

	responseCache := cache.New(cfg.Stats.CacheTTL)
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.Max)
	defer limiter.Stop()

	authService := auth.NewService(gdb, *cfg.Auth)
	cookieManager := auth.NewCookieManager(cfg.Auth, cfg.Server)
	authHandlers := auth.NewHandlers(authService, cookieManager)

	blogService := blogs.NewService(gdb, responseCache)
	blogHandlers := blogs.NewHandlers(blogService)

	projectService := projects.NewService(gdb, responseCache)
	projectHandlers := projects.NewHandlers(projectService)

	resumeService := resumes.NewService(gdb)
	resumeHandlers := resumes.NewHandlers(resumeService)

	userService := users.NewService(gdb, *cfg.Auth)
	userHandlers := users.NewHandlers(userService)

	statsService := stats.NewService(gdb, responseCache)
	statsHandlers := stats.NewHandlers(statsService)

	admin := auth.Authorize(authService, cfg.Auth, models.RoleAdmin)
	optional := auth.Optional(authService, cfg.Auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respond.JSON(w, http.StatusOK, "OK", nil)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware())
				r.Post("/signup", authHandlers.HandleSignup())
				r.Post("/login", authHandlers.HandleLogin())
				r.Post("/provider", authHandlers.HandleProviderAuth())
			})
			r.Post("/refresh-token", authHandlers.HandleRefresh())
			r.Post("/logout", authHandlers.HandleLogout())
			r.With(auth.Authorize(authService, cfg.Auth, models.RoleAdmin, models.RoleUser)).
				Get("/me", authHandlers.HandleMe())
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", blogHandlers.HandleList())
			r.With(admin).Get("/admin", blogHandlers.HandleAdminList())
			r.With(admin).Get("/admin/{id}", blogHandlers.HandleAdminGet())
			r.With(optional).Get("/{slug}", blogHandlers.HandleGetBySlug())
			r.With(admin).Post("/", blogHandlers.HandleCreate())
			r.With(admin).Patch("/{id}", blogHandlers.HandleUpdate())
			r.With(admin).Put("/{id}", blogHandlers.HandleUpdate())
			r.With(admin).Delete("/{id}", blogHandlers.HandleDelete())
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandlers.HandleList())
			r.With(admin).Get("/admin", projectHandlers.HandleAdminList())
			r.With(admin).Get("/admin/{id}", projectHandlers.HandleAdminGet())
			r.With(optional).Get("/{slug}", projectHandlers.HandleGetBySlug())
			r.With(admin).Post("/", projectHandlers.HandleCreate())
			r.With(admin).Patch("/{id}", projectHandlers.HandleUpdate())
			r.With(admin).Put("/{id}", projectHandlers.HandleUpdate())
			r.With(admin).Delete("/{id}", projectHandlers.HandleDelete())
		})

		r.Route("/resumes", func(r chi.Router) {
			r.With(optional).Get("/", resumeHandlers.HandleList())
			r.With(optional).Get("/{id}", resumeHandlers.HandleGet())
			r.With(admin).Post("/", resumeHandlers.HandleCreate())
			r.With(admin).Patch("/{id}", resumeHandlers.HandleUpdate())
			r.With(admin).Put("/{id}", resumeHandlers.HandleUpdate())
			r.With(admin).Delete("/{id}", resumeHandlers.HandleDelete())
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(admin)
			r.Get("/", userHandlers.HandleList())
			r.Get("/{id}", userHandlers.HandleGet())
			r.Post("/", userHandlers.HandleCreate())
			r.Patch("/{id}", userHandlers.HandleUpdate())
			r.Put("/{id}", userHandlers.HandleUpdate())
			r.Delete("/{id}", userHandlers.HandleDelete())
		})

		r.Route("/stats", func(r chi.Router) {
			r.Use(admin)
			r.Get("/overview", statsHandlers.HandleOverview())
			r.Get("/blogs", statsHandlers.HandleBlogs())
			r.Get("/projects", statsHandlers.HandleProjects())
			r.Get("/resumes", statsHandlers.HandleResumes())
			r.Get("/users", statsHandlers.HandleUsers())
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server shutdown failed")
	}
	logrus.Info("server stopped")
}

// requestLogger logs one structured line per request after it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request completed")
	})
}
