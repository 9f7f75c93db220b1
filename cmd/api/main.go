package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collab-platform/internal/audit"
	"collab-platform/internal/config"
	"collab-platform/internal/project"
	"collab-platform/internal/ratelimit"
	"collab-platform/internal/session"
	"collab-platform/internal/token"
	"collab-platform/internal/user"
	"collab-platform/pkg/logger"
	"collab-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	codec, err := token.NewCodec(cfg.Tokens)
	if err != nil {
		log.Error("token codec init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	limiter := ratelimit.Wrap(ratelimit.NewRedisLimiter(rdb), cfg.RateLimit, log)
	// Audit events live in memory for now; events are lost on restart.
	// Durable storage is deferred until the admin log has consumers
	// beyond ops spot checks.
	auditSvc := audit.NewService(audit.NewMemoryRepo(), log)
	users := user.NewPostgresStore(db)
	projects := project.NewPostgresStore(db)

	sessions := session.NewService(codec, users, limiter, auditSvc, log)
	cookies := session.CookieWriter{Secure: cfg.IsProduction()}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, registerDeps{
		cfg:      cfg,
		sessions: sessions,
		cookies:  cookies,
		codec:    codec,
		projects: projects,
		audit:    auditSvc,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
