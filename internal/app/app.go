package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/internal/config"
	"github.com/GlebRadaev/ledger/internal/handlers"
	"github.com/GlebRadaev/ledger/internal/metrics"
	"github.com/GlebRadaev/ledger/internal/pg"
	"github.com/GlebRadaev/ledger/internal/repo"
	"github.com/GlebRadaev/ledger/internal/service"
	"github.com/GlebRadaev/ledger/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg  *config.Config
	api  *handlers.Handlers
	srv  *service.Services
	repo *repo.Repositories
	pool *pgxpool.Pool

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	a.cfg = config.New()

	if err := logger.InitLogger(a.cfg); err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	txManager, err := a.initStorage(ctx)
	if err != nil {
		return err
	}

	a.srv = service.New(a.cfg, a.repo, txManager, metrics.NewWebhook(nil))
	a.api = handlers.New(a.srv, metrics.Handler(nil))

	if a.cfg.SeedData {
		if err := a.srv.Seeder.Seed(ctx); err != nil {
			zap.L().Error("seeding failed", zap.Error(err))
			a.pool.Close()
			return fmt.Errorf("can't seed data: %w", err)
		}
		zap.L().Info("seed data checked")
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// initStorage opens the pool, applies migrations and builds the repositories.
func (a *Application) initStorage(ctx context.Context) (*pg.Manager, error) {
	pool, err := getPgxpool(ctx, a.cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed", zap.Error(err))
		return nil, fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed", zap.Error(err))
		pool.Close()
		return nil, fmt.Errorf("can't run migrations: %w", err)
	}

	a.pool = pool
	a.repo = repo.New(pg.New(pool))
	return pg.NewTXManager(pool), nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
		a.pool.Close()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
