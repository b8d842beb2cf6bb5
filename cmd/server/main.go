package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/tasktrack/backend/api/handler"
	"github.com/tasktrack/backend/internal/config"
	"github.com/tasktrack/backend/internal/infrastructure/monitor"
	"github.com/tasktrack/backend/internal/router"
	"github.com/tasktrack/backend/internal/services/backup"
	"github.com/tasktrack/backend/internal/services/lifecycle"
	"github.com/tasktrack/backend/pkg/httpcontext"
	"github.com/tasktrack/backend/pkg/logger"
	"github.com/tasktrack/backend/repository"
	boltStore "github.com/tasktrack/backend/repository/bolt"
	"github.com/tasktrack/backend/repository/flatfile"
	"github.com/tasktrack/backend/usecase/tasklist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var store repository.TaskStore
	switch cfg.Store.Backend {
	case config.BackendBolt:
		bs, err := boltStore.Open(cfg.Store.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.Register("bolt_store", func(ctx context.Context) error {
			return bs.Close()
		})
		store = bs
	default:
		store = flatfile.New(cfg.Store.FilePath)
	}

	persistence := monitor.New(zapLogger)

	service := tasklist.New(store, persistence, zapLogger)
	if err := service.Load(appCtx); err != nil {
		// A missing file is the normal first run; anything else means the
		// file exists but cannot be read. Start empty rather than crash.
		zapLogger.Warn("could not load task file, starting empty", zap.Error(err))
	}
	manager.Register("task_list", func(ctx context.Context) error {
		return service.Shutdown(ctx)
	})

	if cfg.Backup.Enabled && cfg.Store.Backend == config.BackendFlatFile {
		backupSvc := backup.New(cfg.Store.FilePath, backup.Config{
			Schedule: cfg.Backup.Schedule,
			Dir:      cfg.Backup.Dir,
		}, zapLogger)
		if err := backupSvc.Start(); err != nil {
			zapLogger.Fatal("failed to start backup scheduler", zap.Error(err))
		}
		manager.Register("backup", func(ctx context.Context) error {
			backupSvc.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(service, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(persistence, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
