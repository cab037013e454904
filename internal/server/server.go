// Package server wires the application together: it owns the composition
// root (database → repositories → services → handlers) and the route table.
// main.go stays minimal — load config, call New, call Start.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/config"
	"github.com/sakif/recipebox/internal/handler"
	"github.com/sakif/recipebox/internal/middleware"
	sqliteRepo "github.com/sakif/recipebox/internal/repository/sqlite"
	"github.com/sakif/recipebox/internal/service"
	"github.com/sakif/recipebox/internal/upload"
	"github.com/sakif/recipebox/internal/validation"
)

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown — skipping that can leave
// the WAL unflushed.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers every route.
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services. The concrete *sqlite.DB appears
// exactly once, here.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Route groups, inside-out:
//   - public:    health, register, login, GitHub OAuth, uploaded files
//   - user:      everything under /api behind RequireAuth
//   - staff:     /api/admin/* additionally behind RequireStaff
func (s *Server) setupRoutes() error {
	// Global middleware. Order matters: RequestID before Logger so log
	// lines carry the ID; Recoverer innermost so panics in handlers still
	// produce a logged 500.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Shared infrastructure.
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	store, err := upload.NewStore(s.config.DataDir)
	if err != nil {
		return fmt.Errorf("creating upload store: %w", err)
	}

	validate := validation.New()
	passwords := auth.NewPasswordService()

	// Services.
	userService := service.NewUserService(s.db, passwords, s.logger)
	recipeService := service.NewRecipeService(s.db, s.db, s.db, s.logger)
	tagService := service.NewTagService(s.db, s.logger)
	ingredientService := service.NewIngredientService(s.db, s.logger)

	// Handlers.
	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authHandler := handler.NewAuthHandler(userService, tokens, github, validate, s.logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, store, s.logger)
	tagHandler := handler.NewTagHandler(tagService)
	ingredientHandler := handler.NewIngredientHandler(ingredientService)
	adminHandler := handler.NewAdminHandler(s.db, s.db)

	// Uploaded files. The store roots the uploads tree under DataDir, so
	// /uploads/recipe/abc.jpg maps to <DataDir>/uploads/recipe/abc.jpg.
	uploadsDir := filepath.Join(s.config.DataDir, "uploads")
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	s.router.Get("/api/health", handleHealth)

	// GitHub OAuth — browser-facing, outside /api. Only mounted when
	// credentials are configured.
	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	} else {
		s.logger.Info("GitHub OAuth not configured; /auth/github routes disabled")
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Get("/recipes", recipeHandler.HandleList)
			r.Post("/recipes", recipeHandler.HandleCreate)
			r.Get("/recipes/{id}", recipeHandler.HandleGet)
			r.Put("/recipes/{id}", recipeHandler.HandleReplace)
			r.Patch("/recipes/{id}", recipeHandler.HandlePatch)
			r.Delete("/recipes/{id}", recipeHandler.HandleDelete)
			r.Post("/recipes/{id}/image", recipeHandler.HandleUploadImage)

			r.Get("/tags", tagHandler.HandleList)
			r.Post("/tags", tagHandler.HandleCreate)
			r.Get("/tags/{id}", tagHandler.HandleGet)
			r.Put("/tags/{id}", tagHandler.HandleUpdate)
			r.Patch("/tags/{id}", tagHandler.HandleUpdate)
			r.Delete("/tags/{id}", tagHandler.HandleDelete)

			r.Get("/ingredients", ingredientHandler.HandleList)
			r.Post("/ingredients", ingredientHandler.HandleCreate)
			r.Get("/ingredients/{id}", ingredientHandler.HandleGet)
			r.Put("/ingredients/{id}", ingredientHandler.HandleUpdate)
			r.Patch("/ingredients/{id}", ingredientHandler.HandleUpdate)
			r.Delete("/ingredients/{id}", ingredientHandler.HandleDelete)

			// Staff-only management surface.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireStaff(s.db))

				r.Get("/admin/entities", adminHandler.HandleEntities)
				r.Get("/admin/stats", adminHandler.HandleStats)
				r.Get("/admin/users", adminHandler.HandleListUsers)
			})
		})
	})

	return nil
}

// handleHealth is the liveness probe.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
