// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/harborgate/tenancy/internal/audit"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/email"
	"github.com/harborgate/tenancy/internal/handler"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/policy"
	"github.com/harborgate/tenancy/internal/repository"
	"github.com/harborgate/tenancy/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	auditRepo := repository.NewAccessAuditLogRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	sessionManager := auth.NewSessionManager(
		cfg.Session.Secret,
		cfg.Session.ExpiryPeriod,
		cfg.Session.CookieName,
		cfg.Session.Secure,
	)

	// Initialize email service
	emailService, err := email.NewEmailService(cfg, email.ProviderSendgrid)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize cache service for login form nonces
	cacheConfig := service.CacheConfig{
		TTL:         5 * time.Minute,
		CleanupFreq: 1 * time.Minute,
	}
	cacheService := service.NewCacheService(cacheConfig)
	defer cacheService.Close()

	// Initialize services
	auditService := service.NewAccessAuditLogService(auditRepo)
	var auditLogger audit.Logger = auditService

	userService := service.NewUserService(
		userRepo,
		passwordHasher,
		sessionManager,
		cacheService,
		cfg,
	)
	accountService := service.NewAccountService(
		accountRepo,
		userRepo,
		emailService,
		auditLogger,
		cfg,
	)
	orgService := service.NewOrganizationService(orgRepo, userRepo)

	// Access policy gates
	gate := policy.New(accountService, auditLogger)

	// Initialize handlers
	handlers := apiHandlers{
		auth:        handler.NewAuthHandler(userService, sessionManager, cfg),
		account:     handler.NewAccountHandler(accountService),
		accountUser: handler.NewAccountUserHandler(accountService),
		profile:     handler.NewProfileHandler(userService),
		orgAdmin:    handler.NewOrgAdminHandler(orgService),
		auditLog:    handler.NewAuditLogHandler(auditService),
	}

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	mountAPIRoutes(r, handlers, gate, middleware.RequireAuth(sessionManager, userRepo, cfg.LoginURL))

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// apiHandlers groups the handlers the API router mounts.
type apiHandlers struct {
	auth        *handler.AuthHandler
	account     *handler.AccountHandler
	accountUser *handler.AccountUserHandler
	profile     *handler.ProfileHandler
	orgAdmin    *handler.OrgAdminHandler
	auditLog    *handler.AuditLogHandler
}

// mountAPIRoutes wires the /api tree. Every nested account route composes
// resolution and exactly one gate in front of its handler.
func mountAPIRoutes(r chi.Router, h apiHandlers, gate *policy.Policy, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", h.auth.LoginForm)

			r.Group(func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				r.Post("/login", h.auth.Login)
			})

			// Logout is intentionally POST-only so that link prefetching
			// or crawling can never end a session.
			r.Post("/logout", h.auth.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.profile.Show)
				r.With(chimw.AllowContentType("application/json")).Put("/", h.profile.Update)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", h.account.List)
				r.With(chimw.AllowContentType("application/json")).Post("/", h.account.Create)

				r.Route("/{accountID}", func(r chi.Router) {
					r.Use(gate.AccountCtx)

					r.With(gate.RequireMember).Get("/", h.account.Detail)
					r.With(gate.RequireAdmin, chimw.AllowContentType("application/json")).Put("/", h.account.Update)
					r.With(gate.RequireOwner).Delete("/", h.account.Delete)

					r.Route("/members", func(r chi.Router) {
						r.With(gate.RequireMember).Get("/", h.accountUser.List)
						r.With(gate.RequireAdmin, chimw.AllowContentType("application/json")).Post("/", h.accountUser.Create)

						// Individual membership records are admin-only,
						// reads included.
						r.Route("/{membershipID}", func(r chi.Router) {
							r.Use(gate.MembershipCtx)

							r.With(gate.RequireAdmin).Get("/", h.accountUser.Detail)
							r.With(gate.RequireAdmin, chimw.AllowContentType("application/json")).Put("/", h.accountUser.Update)
							r.With(gate.RequireAdmin).Delete("/", h.accountUser.Delete)
						})
					})
				})
			})

			// Staff-only admin surface
			r.Route("/admin", func(r chi.Router) {
				r.Use(gate.RequireStaff)

				r.Route("/orgs", func(r chi.Router) {
					r.Get("/", h.orgAdmin.List)
					r.Get("/tree", h.orgAdmin.Tree)
					r.With(chimw.AllowContentType("application/json")).Post("/", h.orgAdmin.Create)

					r.Route("/{orgID}", func(r chi.Router) {
						r.Get("/", h.orgAdmin.Detail)
						r.With(chimw.AllowContentType("application/json")).Put("/", h.orgAdmin.Update)
						r.Delete("/", h.orgAdmin.Delete)

						r.Route("/users", func(r chi.Router) {
							r.Get("/", h.orgAdmin.ListUsers)
							r.With(chimw.AllowContentType("application/json")).Post("/", h.orgAdmin.AddUser)
							r.With(chimw.AllowContentType("application/json")).Put("/{orgUserID}", h.orgAdmin.UpdateUser)
							r.Delete("/{orgUserID}", h.orgAdmin.RemoveUser)
						})

						r.Route("/owner", func(r chi.Router) {
							r.Get("/", h.orgAdmin.GetOwner)
							r.With(chimw.AllowContentType("application/json")).Put("/", h.orgAdmin.SetOwner)
							r.Delete("/", h.orgAdmin.ClearOwner)
						})
					})
				})

				r.Route("/audit-logs", func(r chi.Router) {
					r.Get("/", h.auditLog.List)
					r.Get("/{logID}", h.auditLog.Detail)
				})
			})
		})
	})
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					err := errors.New("panic recovered")
					logger.Error("panic recovered",
						"error", err,
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"Internal server error"}`))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
