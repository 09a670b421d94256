package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/fkhayef/checkin/docs"
	"github.com/fkhayef/checkin/internal/config"
	"github.com/fkhayef/checkin/internal/database"
	"github.com/fkhayef/checkin/internal/group"
	"github.com/fkhayef/checkin/internal/identity"
	"github.com/fkhayef/checkin/internal/localtime"
	"github.com/fkhayef/checkin/internal/logger"
	"github.com/fkhayef/checkin/internal/notification"
	"github.com/fkhayef/checkin/internal/notification/contact"
	"github.com/fkhayef/checkin/internal/notification/dedup"
	"github.com/fkhayef/checkin/internal/notification/dispatch"
	"github.com/fkhayef/checkin/internal/notification/eligibility"
	"github.com/fkhayef/checkin/internal/question"
	"github.com/fkhayef/checkin/internal/settings"
	"github.com/fkhayef/checkin/internal/sms"
	"github.com/fkhayef/checkin/internal/user"
	mw "github.com/fkhayef/checkin/pkg/middleware"
	"github.com/fkhayef/checkin/pkg/validation"
)

// @title                      Check-in API
// @version                    1.0
// @description                Groups, daily questions and SMS notifications.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @securityDefinitions.apikey CronSecret
// @in                         header
// @name                       Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}
	names, err := database.MigrationNames()
	if err != nil {
		return err
	}
	lg.Info("connected to database", zap.Strings("migrations", names))

	// Dedup store
	var artifacts dedup.Store
	switch cfg.Dedup.Backend {
	case "redis":
		rs, err := dedup.NewRedisStoreWithURL(cfg.Dedup.RedisURL)
		if err != nil {
			return err
		}
		defer rs.Close()
		artifacts = rs
	default:
		artifacts = dedup.NewPostgresStore(db)
	}

	// External providers. Interfaces stay nil when a provider is not configured.
	var (
		identities contact.IdentityLister
		deleter    user.IdentityDeleter
		completer  question.Completer
		dispatcher notification.Dispatcher
	)
	if cfg.Identity.URL != "" {
		client := identity.NewClient(cfg.Identity.URL, cfg.Identity.ServiceKey, lg.Named("identity"))
		identities, deleter = client, client
	}
	if cfg.LLM.APIKey != "" {
		completer = question.NewLLMClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, lg.Named("llm"))
	}
	if provider := newSMSProvider(cfg.SMS, lg); provider != nil {
		dispatcher = dispatch.NewExecutor(provider, dispatch.Options{
			Concurrency:   cfg.SMS.DispatchConcurrency,
			RatePerSecond: cfg.SMS.DispatchRate,
		}, lg.Named("dispatch"))
	} else {
		lg.Warn("sms provider is not configured; notification routes will answer CONFIG_ERROR")
	}

	validator := validation.New()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, deleter)
	userHandler := user.NewHandler(userService, validator)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService, validator)

	// Notification settings feature
	settingsRepo := settings.NewRepository(db)
	settingsService := settings.NewService(settingsRepo, groupService)
	settingsHandler := settings.NewHandler(settingsService, validator)

	// Notification feature (eligibility rules come from the factory)
	notificationService := notification.NewService(notification.Deps{
		Store:      notification.NewRepository(db),
		Resolver:   eligibility.NewResolver(eligibility.NewFactory()),
		Contacts:   contact.NewResolver(identities, lg.Named("contact")),
		Guard:      dedup.NewGuard(artifacts, loc),
		Questions:  question.NewSource(completer, lg.Named("question")),
		Dispatcher: dispatcher,
		Window: localtime.Window{
			Hour:     cfg.ReminderHour,
			Minute:   cfg.ReminderMinute,
			Length:   time.Duration(cfg.ReminderWindowMinutes) * time.Minute,
			Location: loc,
		},
		AppURL: cfg.AppURL,
		Logger: lg.Named("notification"),
	})
	notificationHandler := notification.NewHandler(notificationService, groupService, validator)

	userAuth := mw.AuthMiddleware([]byte(cfg.JWTSecret))
	if cfg.DevAuth {
		lg.Warn("dev auth enabled: " + mw.TestUserHeader + " header is trusted")
		userAuth = mw.TestUserMiddleware([]byte(cfg.JWTSecret))
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(lg.Named("http")))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(userAuth)

			r.Mount("/users", userHandler.Routes())
			r.Route("/groups", func(r chi.Router) {
				groupHandler.Register(r)
				settingsHandler.Register(r)
				notificationHandler.RegisterGroupRoutes(r)
			})
			r.Mount("/notify", notificationHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSharedSecret(cfg.CronSecret))
			r.Mount("/jobs", notificationHandler.JobRoutes())
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute, // daily jobs run inline
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server starting", zap.String("port", cfg.Port), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSMSProvider returns nil when the configured provider cannot send
func newSMSProvider(cfg config.SMSConfig, lg *zap.Logger) sms.Provider {
	switch cfg.Provider {
	case "mock":
		return sms.NewMockProvider(lg.Named("sms"))
	default:
		if !cfg.Configured() {
			return nil
		}
		return sms.NewTwilioProvider(cfg.BaseURL, cfg.AccountSID, cfg.AuthToken, cfg.FromNumber, lg.Named("sms"))
	}
}
