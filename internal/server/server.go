// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency is built here and handed
// down, so no other package constructs its own collaborators.
//
//	config.Config
//	  → repository.KeyValueStore (sqlite | postgres | s3 | file | memory)
//	  → persistence.Adapter
//	  → catalog.Store
//	  → CatalogService, AdminService, AuthService, player.Manager
//	  → handlers → routes
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
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/luzplay/internal/auth"
	"github.com/sakif/luzplay/internal/catalog"
	"github.com/sakif/luzplay/internal/config"
	"github.com/sakif/luzplay/internal/handler"
	"github.com/sakif/luzplay/internal/middleware"
	"github.com/sakif/luzplay/internal/persistence"
	"github.com/sakif/luzplay/internal/player"
	"github.com/sakif/luzplay/internal/repository"
	fileRepo "github.com/sakif/luzplay/internal/repository/file"
	"github.com/sakif/luzplay/internal/repository/memory"
	postgresRepo "github.com/sakif/luzplay/internal/repository/postgres"
	s3Repo "github.com/sakif/luzplay/internal/repository/s3"
	sqliteRepo "github.com/sakif/luzplay/internal/repository/sqlite"
	"github.com/sakif/luzplay/internal/service"
)

// Server owns the storage backend and the playback sessions; both are
// released in Close.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	kv      repository.KeyValueStore
	store   *catalog.Store
	players *player.Manager
}

// New opens the configured storage backend and builds the server on it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	kv, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}

	s, err := NewWithStore(ctx, cfg, kv, logger)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore builds the server on an already opened backend. On success
// the server owns kv and closes it in Close; on error the caller still does.
func NewWithStore(ctx context.Context, cfg *config.Config, kv repository.KeyValueStore, logger *slog.Logger) (*Server, error) {
	adapter := persistence.New(kv, cfg.KeyPrefix, logger)
	store := catalog.Open(ctx, adapter, catalog.SeedDefaults(time.Now()), logger)

	players := player.NewManager(store, player.Config{
		Countdown: cfg.PreRoll,
		TTL:       cfg.SessionTTL,
	}, logger)

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		kv:      kv,
		store:   store,
		players: players,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	players.Start()
	return s, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (repository.KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return sqliteRepo.New(cfg.DBPath)
	case config.BackendPostgres:
		return postgresRepo.New(cfg.DatabaseURL)
	case config.BackendS3:
		return s3Repo.New(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	case config.BackendFile:
		return fileRepo.New(cfg.StateDir)
	case config.BackendMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// RequestID must run before Logger so the log line carries the id.
// Recoverer sits inside Logger so a recovered panic is still logged as a 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// === Admin ===
	// Without credentials the admin routes are not registered at all.
	var (
		authService  *service.AuthService
		authHandler  *handler.AuthHandler
		adminHandler *handler.AdminHandler
	)
	if s.config.AdminEnabled() {
		var err error
		if authService, err = s.newAuthService(); err != nil {
			return err
		}
		secure := strings.HasPrefix(s.config.PublicURL, "https://")
		authHandler = handler.NewAuthHandler(authService, secure, s.logger)
		adminHandler = handler.NewAdminHandler(service.NewAdminService(s.store, s.logger), s.logger)

		s.router.Post("/auth/login", authHandler.HandleLogin)
		s.router.Post("/auth/logout", authHandler.HandleLogout)
	} else {
		s.logger.Warn("admin credentials not set, admin panel is disabled")
	}

	var tokens *auth.TokenService
	if authService != nil {
		tokens = authService.Tokens()
	}
	catalogHandler := handler.NewCatalogHandler(
		service.NewCatalogService(s.store, s.config.PublicURL, s.logger), tokens, s.logger)
	playerHandler := handler.NewPlayerHandler(s.players, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/state", catalogHandler.HandleState)
		r.Get("/home", catalogHandler.HandleHome)
		r.Get("/videos", catalogHandler.HandleListVideos)
		r.Get("/videos/{id}", catalogHandler.HandleGetVideo)
		r.Get("/videos/{id}/share", catalogHandler.HandleShareVideo)
		r.Get("/shorts", catalogHandler.HandleShorts)
		r.Get("/categories", catalogHandler.HandleCategories)
		r.Put("/search", catalogHandler.HandleSetSearch)
		r.Post("/favorites/{id}", catalogHandler.HandleToggleFavorite)
		r.Put("/settings/dark-mode", catalogHandler.HandleSetDarkMode)
		r.Get("/ads", catalogHandler.HandleActiveAd)
		r.Get("/pix", catalogHandler.HandlePix)
		r.Get("/youtube", catalogHandler.HandleYouTube)
		r.Get("/verse", catalogHandler.HandleVerse)

		r.Route("/play", func(r chi.Router) {
			r.Post("/{videoId}", playerHandler.HandlePlay)
			r.Get("/sessions/{sid}", playerHandler.HandleGetSession)
			r.Post("/sessions/{sid}/skip", playerHandler.HandleSkip)
			r.Post("/sessions/{sid}/finish", playerHandler.HandleFinish)
			r.Post("/sessions/{sid}/replay", playerHandler.HandleReplay)
			r.Delete("/sessions/{sid}", playerHandler.HandleEnd)
		})

		if adminHandler == nil {
			return
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Get("/stats", adminHandler.HandleStats)

			r.Post("/videos", adminHandler.HandleCreateVideo)
			r.Patch("/videos/{id}", adminHandler.HandleUpdateVideo)
			r.Delete("/videos/{id}", adminHandler.HandleDeleteVideo)

			r.Post("/categories", adminHandler.HandleCreateCategory)
			r.Delete("/categories/{id}", adminHandler.HandleDeleteCategory)

			r.Post("/ads", adminHandler.HandleCreateAd)
			r.Delete("/ads/{id}", adminHandler.HandleDeleteAd)
			r.Post("/ads/{id}/toggle", adminHandler.HandleToggleAd)

			r.Put("/pix", adminHandler.HandleUpdatePix)
		})
	})

	return nil
}

// newAuthService hashes ADMIN_PASSWORD at startup when no hash is
// configured.
func (s *Server) newAuthService() (*service.AuthService, error) {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return nil, err
	}
	passwords := auth.NewPasswordService()

	hash := s.config.AdminPasswordHash
	if hash == "" {
		if hash, err = passwords.Hash(s.config.AdminPassword); err != nil {
			return nil, fmt.Errorf("hashing admin password: %w", err)
		}
	}

	return service.NewAuthService(s.store, service.Credentials{
		User:         s.config.AdminUser,
		PasswordHash: hash,
	}, tokens, passwords, s.logger), nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops the session sweeper and closes the storage backend.
func (s *Server) Close() error {
	s.players.Close()
	return s.kv.Close()
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully:
//  1. stop accepting new connections
//  2. wait up to 30s for in-flight requests
//  3. stop the sweeper and close the backend
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing storage backend", slog.String("error", err.Error()))
		}
	}()

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
			slog.String("url", s.config.PublicURL),
			slog.String("backend", string(s.config.Backend)),
			slog.Bool("admin", s.config.AdminEnabled()),
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
