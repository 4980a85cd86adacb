package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"launcher/internal/adapter/fetcher"
	"launcher/internal/adapter/parser"
	"launcher/internal/config"
	"launcher/internal/logger"
	"launcher/internal/migrations"
	server "launcher/internal/transport/http"
	"launcher/internal/usecase"
	"launcher/internal/worker"
	"launcher/storage"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App представляет сервис контента лаунчера.
// Координирует работу HTTP-сервера, сервиса конфигурации, офлайн-хранилища
// и воркера зеркалирования. Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	logFiles io.Closer
	service  *usecase.ConfigService
	mirror   *usecase.MirrorUseCase
	store    storage.OfflineStore
	server   *http.Server
	worker   *worker.Worker
	stopChan chan os.Signal
	wg       sync.WaitGroup

	closeOnce sync.Once
}

// New создает и инициализирует экземпляр приложения.
// Настраивает логгер, открывает офлайн-хранилище (файлы или PostgreSQL с миграциями)
// и собирает все зависимости. Воркер создается только при заданном offline.mirror_interval.
func New(cfg *config.Config) (*App, error) {
	appLogger, logFiles, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	store, err := openOfflineStore(context.Background(), cfg, appLogger)
	if err != nil {
		logFiles.Close()
		return nil, err
	}

	endpoints := cfg.Launcher.Endpoints()
	httpFetcher := fetcher.NewHTTPFetcher(appLogger, cfg.Launcher.Timeout(), cfg.Launcher.UserAgent)
	rssParser, err := parser.New(cfg.Launcher.RSSParser, appLogger)
	if err != nil {
		store.Close()
		logFiles.Close()
		return nil, fmt.Errorf("bad init app: %w", err)
	}
	slog.SetDefault(appLogger)

	service := usecase.NewConfigService(httpFetcher, rssParser, store, endpoints, appLogger)
	mirror := usecase.NewMirrorUseCase(httpFetcher, store, endpoints, appLogger)

	var mirrorWorker *worker.Worker
	if interval := cfg.Offline.Interval(); interval > 0 {
		mirrorWorker = worker.New(mirror, mirror.Documents(), interval, appLogger)
	}

	handler := server.NewHandler(appLogger, service)
	router := server.NewServer(appLogger, handler)
	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &App{
		config:   cfg,
		logger:   appLogger,
		logFiles: logFiles,
		service:  service,
		mirror:   mirror,
		store:    store,
		server:   httpServer,
		worker:   mirrorWorker,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// openOfflineStore открывает офлайн-хранилище выбранного типа.
// Для PostgreSQL проверяет соединение и применяет миграции.
func openOfflineStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.OfflineStore, error) {
	if cfg.Offline.Backend != config.BackendPostgres {
		return storage.NewFileOfflineStore(cfg.Offline.Dir, log), nil
	}
	dbPool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := migrations.Apply(ctx, log, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return storage.NewPostgresOfflineStore(dbPool, log), nil
}

// Service возвращает сервис конфигурации для разовых вызовов из CLI.
func (a *App) Service() *usecase.ConfigService { return a.service }

// Seed копирует поставляемые офлайн-файлы из каталога dir в хранилище приложения.
func (a *App) Seed(ctx context.Context, dir string) (int, error) {
	from := storage.NewFileOfflineStore(dir, a.logger)
	return usecase.Seed(ctx, from, a.store, a.mirror.Documents(), a.logger)
}

// Run запускает HTTP-сервер и воркер зеркалирования.
// Метод блокируется до получения сигнала завершения или отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting launcher content service",
		slog.String("component", "app"),
		slog.String("launcher_url", a.config.Launcher.BaseURL()),
		slog.String("offline_backend", a.config.Offline.Backend),
	)
	if a.worker != nil {
		a.worker.Start()
	}
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.Shutdown()
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
			serveErr <- err
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)
	var runErr error
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case <-ctx.Done():
		a.logger.Info("Context cancelled, initiating shutdown", slog.String("component", "app"))
	case runErr = <-serveErr:
	}
	if err := a.Shutdown(); err != nil {
		return err
	}
	return runErr
}

// Shutdown выполняет graceful shutdown приложения.
// Останавливает воркер, завершает HTTP-сервер с таймаутом 10 секунд
// и закрывает офлайн-хранилище.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown")
	if a.worker != nil {
		a.worker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully")
	a.Close()
	return nil
}

// Close освобождает офлайн-хранилище и закрывает файлы логов.
// Повторный вызов ничего не делает.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.store != nil {
			a.store.Close()
		}
		if a.logFiles != nil {
			a.logFiles.Close()
		}
	})
}
