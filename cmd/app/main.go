package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/config"
	"github.com/BuzzLyutic/tasklist/internal/handler"
	"github.com/BuzzLyutic/tasklist/internal/logging"
	"github.com/BuzzLyutic/tasklist/internal/notify"
	"github.com/BuzzLyutic/tasklist/internal/repo"
	"github.com/BuzzLyutic/tasklist/internal/service"
	"github.com/BuzzLyutic/tasklist/internal/worker"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем логгер
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Открываем хранилище
	slot, err := repo.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer slot.Close()

	hub := notify.NewHub()
	hub.Subscribe(func(n notify.Notification) {
		logger.Info("notification", zap.String("message", n.Message), zap.String("severity", string(n.Severity)))
	})

	pool := worker.NewPool(hub, logger, cfg.WorkerCount, 64)
	pool.Start(ctx)
	defer pool.Stop()

	store := service.NewTaskStore(slot, logger, service.WithNotifier(pool))
	if err := store.Load(ctx); err != nil {
		if !errors.Is(err, service.ErrCorruptState) {
			logger.Fatal("Failed to load tasks", zap.Error(err))
		}
		logger.Warn("Starting with an empty task list", zap.Error(err))
	}
	logger.Info("Tasks loaded", zap.String("driver", cfg.Storage.Driver), zap.Int("count", store.Stats().Total))

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})
	r.Mount("/api/tasks", handler.NewTaskHandler(store, hub, logger).Routes())

	srv := http.Server{ // Создаем сервер
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// request contexts end with ctx so notification streams close on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
		// WriteTimeout is left unset: /api/tasks/notifications is a long-lived stream.
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Server stopped successfully!")
}
