package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/config"
	"quiz-backend/internal/database"
	"quiz-backend/internal/graph"
	"quiz-backend/internal/handler"
	"quiz-backend/internal/logger"
	"quiz-backend/internal/metrics"
	"quiz-backend/internal/middleware"
	"quiz-backend/internal/model"
	"quiz-backend/internal/repository"
	"quiz-backend/internal/router"
	"quiz-backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.LogFormat, cfg.LogLevel, os.Stdout))

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	signing, err := auth.NewSigningConfig(cfg.JWTSecret,
		auth.WithNotBefore(cfg.JWTValidateNotBefore),
		auth.WithLeeway(cfg.JWTLeeway),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signing: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	sqlDB := db.SQL()
	userRepo := repository.NewUserRepository(sqlDB)
	commentRepo := repository.NewCommentRepository(sqlDB)
	questionRepo := repository.NewQuestionRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	slog.Info("database ready")

	m := metrics.New()
	m.WatchPool(db.PoolStats)

	authService := service.NewAuthService(userRepo, hasher, signing)
	authService.SetLoginObserver(m.ObserveLogin)
	commentService := service.NewCommentService(commentRepo)
	questionService := service.NewQuestionService(questionRepo, categoryRepo)

	created, err := authService.EnsureAdmin(context.Background(), model.NewUser{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Nickname: cfg.AdminNickname,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
	}
	if created {
		slog.Info("bootstrap admin created", "username", cfg.AdminUsername)
	}

	schema := graph.NewSchema(graph.NewResolver(authService, commentService, questionService))
	authMiddleware := middleware.NewAuthMiddleware(auth.NewGuard(signing, userRepo), m)

	appRouter := router.New(cfg, authMiddleware, m, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Health:  handler.NewHealthHandler(db),
		GraphQL: graph.NewHandler(schema, m),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serveErr:
		if ok {
			a.cleanup()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
