// Package main initializes and starts the content backend, setting up
// configuration, logging, storage, repositories, services, handlers and
// optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/config"
	"github.com/atinyakov/siteadmin/internal/db"
	"github.com/atinyakov/siteadmin/internal/logger"
	"github.com/atinyakov/siteadmin/internal/repository"
	"github.com/atinyakov/siteadmin/internal/server/handler/http"
	"github.com/atinyakov/siteadmin/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// tokenCleanInterval is how often expired tokens are purged.
const tokenCleanInterval = time.Hour

func main() {
	// Parse command-line and environment configuration.
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// backend is the wired application.
type backend struct {
	handler nethttp.Handler
	auth    *service.AuthService
	close   func() error
}

// newBackend builds repositories, services and the router. Postgres is used
// when a DSN is configured, process memory otherwise.
func newBackend(ctx context.Context, options config.Server, zapLogger *zap.Logger) (*backend, error) {
	var (
		authRepo    service.AuthRepository
		contentRepo service.ContentRepository
		closeDB     = func() error { return nil }
	)
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		authRepo = repository.NewPostgresAuthRepository(postgresDB)
		contentRepo = repository.NewPostgresContentRepository(postgresDB)
		closeDB = postgresDB.Close
	} else {
		zapLogger.Warn("no database configured, content is kept in memory")
		authRepo = repository.NewMemoryAuthRepository()
		contentRepo = repository.NewMemoryContentRepository()
	}

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo, options.TokenTTL)
	contentService := service.NewContentService(contentRepo)
	uploadService := service.NewUploadService(options.PublicURL)
	analyticsService := service.NewAnalyticsService(contentService, authService)

	if options.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, options.AdminEmail, options.AdminPassword); err != nil {
			_ = closeDB()
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth:      &http.AuthHandler{AuthService: authService},
		Content:   &http.ContentHandler{ContentService: contentService},
		Upload:    &http.UploadHandler{UploadService: uploadService},
		Analytics: &http.AnalyticsHandler{AnalyticsService: analyticsService},
	}, authService, zapLogger)

	return &backend{handler: router, auth: authService, close: closeDB}, nil
}

func run(ctx context.Context, options config.Server, zapLogger *zap.Logger) error {
	b, err := newBackend(ctx, options, zapLogger)
	if err != nil {
		return err
	}
	defer func() { _ = b.close() }()

	// Purge expired bearer tokens in the background; a non-positive TTL
	// means tokens never expire.
	if options.TokenTTL > 0 {
		db.StartTokenCleaner(ctx, b.auth, tokenCleanInterval, zapLogger)
	}

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           b.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(server, options, zapLogger)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// serve listens with TLS when a certificate and key are configured.
func serve(server *nethttp.Server, options config.Server, zapLogger *zap.Logger) error {
	var err error
	if options.TLSCert != "" && options.TLSKey != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		err = server.ListenAndServe()
	}
	if errors.Is(err, nethttp.ErrServerClosed) {
		return nil
	}
	return err
}
