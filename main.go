package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/blogem/asset-registry/authenticator"
	"github.com/blogem/asset-registry/config"
	"github.com/blogem/asset-registry/controllers"
	"github.com/blogem/asset-registry/database"
	authmiddleware "github.com/blogem/asset-registry/middleware"
	"github.com/blogem/asset-registry/repositories"
	"github.com/blogem/asset-registry/services"
)

func main() {
	ctx := context.Background()

	// Load environment variables from .env file, if present
	_ = godotenv.Load()

	logger := newLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(db, repos, logger)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, repos)

	// Initialize OIDC provider
	auth, err := authenticator.NewOpenIDProvider(authenticator.OpenIDConfig{
		Domain:       cfg.OIDCDomain,
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		CallbackURL:  cfg.OIDCCallbackURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize OIDC provider")
	}

	// Set up router
	r, err := setupRouter(ctrl, repos, auth, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup router")
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Str("database", cfg.DatabasePath).
		Msg("asset registry starting")

	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// newLogger builds the process-wide zerolog logger
func newLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, repos *repositories.Repositories, auth authenticator.Provider, cfg config.Config) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks
	r.Use(middleware.Compress(5))

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "registry_session",
		Secure:         cfg.UseSecureCookies,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// PUBLIC ROUTES (no authentication required)
	r.Get("/login", ctrl.Auth.Login(auth))
	r.Get("/callback", ctrl.Auth.Callback(auth))
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "asset-registry"}`)
	})

	// PROTECTED ROUTES (authentication required)
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
		r.Use(httprate.LimitByIP(120, time.Minute))
		r.Use(authmiddleware.RequireAuth(repos.User))

		// Asset routes
		r.Route("/assets", func(r chi.Router) {
			r.Post("/", ctrl.Assets.Create)
			r.Get("/{assetID}", ctrl.Assets.Get)
			r.Delete("/{assetID}", ctrl.Assets.Delete)
			r.Post("/{assetID}/deletion-requests", ctrl.DeletionRequests.Submit)
			r.Get("/{assetID}/deletion-request", ctrl.DeletionRequests.GetForAsset)
		})

		// Deletion request routes
		r.Route("/deletion-requests", func(r chi.Router) {
			r.Get("/", ctrl.DeletionRequests.List)
			r.Get("/stats", ctrl.DeletionRequests.Stats)
			r.Post("/{id}/cancel", ctrl.DeletionRequests.Cancel)
			r.Post("/{id}/approve", ctrl.DeletionRequests.Approve)
			r.Post("/{id}/reject", ctrl.DeletionRequests.Reject)
		})
	})

	return r, nil
}
