// Command gallery-server serves the art gallery web application.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/gallery/internal/config"
	"github.com/and161185/gallery/internal/limiter"
	"github.com/and161185/gallery/internal/logger"
	"github.com/and161185/gallery/internal/media"
	"github.com/and161185/gallery/internal/migrate"
	"github.com/and161185/gallery/internal/repository/postgres"
	httpserver "github.com/and161185/gallery/internal/server/http"
	"github.com/and161185/gallery/internal/server/http/views"
	opsserver "github.com/and161185/gallery/internal/server/ops"
	"github.com/and161185/gallery/internal/service"
	"github.com/and161185/gallery/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves HTTP plus the ops endpoint.
func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("ops_addr", cfg.OpsAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		log.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("postgres", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	accountRepo := postgres.NewAccountRepo(db)
	noteRepo := postgres.NewNotificationRepo(db)
	artworkRepo := postgres.NewArtworkRepo(db)

	lim := limiter.NewPG(db.Pool, limiter.Policy{
		Window:   cfg.LoginWindow,
		MaxFails: cfg.LoginMaxFails,
		BlockFor: cfg.LoginBlockFor,
	})

	// Services
	accounts := service.NewAccountService(accountRepo, noteRepo)
	svc := httpserver.Services{
		Credentials: service.NewCredentialStore(accountRepo, lim),
		Sessions:    service.NewSessionRegistry(accountRepo),
		Accounts:    accounts,
		Engagement:  service.NewEngagementService(artworkRepo, accountRepo, accounts),
		Catalog:     service.NewCatalogService(artworkRepo),
	}

	resolver, err := media.NewResolver(ctx, media.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}, log)
	if err != nil {
		log.Fatal("media resolver", zap.Error(err))
	}
	// poster URLs are presigned at render time
	v, err := views.New(func(ref string) string { return resolver.Resolve(ctx, ref) })
	if err != nil {
		log.Fatal("views", zap.Error(err))
	}

	cookies, err := session.NewCodec([]byte(cfg.SessionKey), cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		log.Fatal("session codec", zap.Error(err))
	}

	h, err := httpserver.NewHandler(svc, v, cookies, db, log)
	if err != nil {
		log.Fatal("handler", zap.Error(err))
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpserver.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var ops *opsserver.Server
	if cfg.OpsAddr != "" {
		lis, err := net.Listen("tcp", cfg.OpsAddr)
		if err != nil {
			log.Fatal("listen ops", zap.Error(err))
		}
		ops = opsserver.New(log, cfg.Dev)
		go ops.Monitor(ctx, db, 10*time.Second)
		go func() {
			log.Info("ops listening", zap.String("addr", cfg.OpsAddr))
			errCh <- ops.Serve(lis)
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ops != nil {
		ops.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	log.Info("shutdown complete")
}
