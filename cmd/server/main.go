// @title InfiniteBZ Event Draft API
// @version 1.0
// @description Drafts, edits and submits InfiniteBZ events on behalf of a logged-in organizer.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/lib/pq"

	"infinitebz/config"
	_ "infinitebz/docs"
	"infinitebz/internal/adapters/auth"
	"infinitebz/internal/adapters/email"
	"infinitebz/internal/adapters/infinitebz"
	"infinitebz/internal/adapters/sessionize"
	httpdelivery "infinitebz/internal/delivery/http"
	"infinitebz/internal/delivery/http/controllers"
	"infinitebz/internal/delivery/http/middleware"
	"infinitebz/internal/domain"
	"infinitebz/internal/repository/postgres"
	"infinitebz/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo domain.DraftRepository
	if cfg.DBUrl != "" {
		db, err := openDB(ctx, cfg.DBUrl)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = postgres.NewDraftRepository(db)
		logger.Info("draft autosave enabled")
	} else {
		logger.Info("DATABASE_URL not set, draft autosave disabled")
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	upstream := infinitebz.NewClient(cfg.UpstreamAPIURL, httpClient)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to configure mailer", "error", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	inspector := auth.NewTokenVerifier(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, access tokens will be confirmed with the upstream API")
		inspector = auth.NewClaimsInspector()
	}
	sessionService := services.NewSessionService(services.SessionServiceDeps{
		Auth:      upstream,
		Inspector: inspector,
		Timeout:   cfg.RequestTimeout,
	})
	draftService := services.NewDraftService(services.DraftServiceDeps{
		Repo:            repo,
		Events:          upstream,
		Sessions:        sessionService,
		Sessionize:      sessionize.NewHTTPFetcher(cfg.SessionizeAPIURL, httpClient),
		Emails:          emailService,
		ShareBaseURL:    cfg.ShareBaseURL,
		DefaultTimezone: cfg.DefaultTimezone,
		Timeout:         cfg.RequestTimeout,
		IdleTTL:         cfg.DraftIdleTTL,
		SucceededTTL:    cfg.DraftSucceededTTL,
		Logger:          logger,
	})

	router := httpdelivery.NewRouter(
		logger,
		sessionService,
		controllers.NewAuthController(logger, sessionService),
		controllers.NewDraftController(logger, draftService),
	)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment, "upstream", cfg.UpstreamAPIURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	if err := postgres.Migrate(pingCtx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
