package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/navarrastar/helpdesk-form/pkg/api"
	"github.com/navarrastar/helpdesk-form/pkg/clients/googleid"
	"github.com/navarrastar/helpdesk-form/pkg/clients/recaptcha"
	"github.com/navarrastar/helpdesk-form/pkg/clients/smtp"
	"github.com/navarrastar/helpdesk-form/pkg/config"
	"github.com/navarrastar/helpdesk-form/pkg/logging"
	"github.com/navarrastar/helpdesk-form/pkg/metrics"
	"github.com/navarrastar/helpdesk-form/pkg/services"
	"github.com/navarrastar/helpdesk-form/pkg/validation"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "helpdesk-form: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Info("no .env file loaded", zap.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Initialize API clients
	captchaClient := recaptcha.NewClient(cfg.Recaptcha.SecretKey, cfg.Recaptcha.VerifyURL, cfg.HTTP.OutboundTimeout, logger)
	identityClient, err := googleid.NewClient(ctx, cfg.Google.ClientID, cfg.HTTP.OutboundTimeout)
	if err != nil {
		return err
	}
	relay := smtp.NewClient(smtp.Options{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Secure:   cfg.SMTP.Secure,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Pass,
		Timeout:  cfg.HTTP.OutboundTimeout,
	})

	composer, err := services.NewComposer(cfg.SMTP.FromName, cfg.SMTP.User, cfg.SMTP.Recipient)
	if err != nil {
		return err
	}
	variant := validation.Variant{Extended: cfg.Form.Extended}

	// Initialize services
	submissionService := services.NewSubmissionService(
		captchaClient,
		relay,
		composer,
		validation.New(variant),
		m,
		logger,
	)
	identityService := services.NewIdentityService(identityClient, m, logger)

	// Set Gin to release mode in production
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := api.NewHandlers(submissionService, identityService, api.PageSettings{
		SiteKey:        cfg.Recaptcha.SiteKey,
		GoogleClientID: cfg.Google.ClientID,
		Variant:        variant,
	}, logger)

	router, err := api.NewRouter(cfg, handlers, m, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.Bool("extended_form", cfg.Form.Extended),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
