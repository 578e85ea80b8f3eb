package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ritu/internal/auth"
	"ritu/internal/community"
	"ritu/internal/config"
	"ritu/internal/db"
	"ritu/internal/flags"
	httpx "ritu/internal/http"
	"ritu/internal/logging"
	"ritu/internal/notify"
	"ritu/internal/routine"
	"ritu/internal/user"
)

func main() {
	cfg, _ := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	var (
		routineRepo   routine.Repository
		userRepo      user.Repository
		communityRepo community.Repository
	)
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		routineRepo = routine.NewInMemoryRepository()
		userRepo = user.NewInMemoryRepository()
		communityRepo = community.NewInMemoryRepository()
	default:
		gdb, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connect failed", "error", err)
			os.Exit(1)
		}
		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		routineRepo = routine.NewPostgresRepository(gdb)
		userRepo = user.NewPostgresRepository(gdb)
		communityRepo = community.NewPostgresRepository(gdb)
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	flagSvc := &flags.Service{}

	r := httpx.NewRouter(cfg, httpx.Deps{
		JWT:       jwtSvc,
		Routines:  &routine.Service{Repo: routineRepo, Users: userRepo},
		Users:     userRepo,
		Community: &community.Service{Repo: communityRepo},
		Flags:     flagSvc,
	})

	ctx, cancel := context.WithCancel(context.Background())

	var worker *notify.Worker
	if flagSvc.Flags("")[flags.Notifications] {
		worker = &notify.Worker{
			Routines: routineRepo,
			Users:    userRepo,
			Notifier: &notify.LogNotifier{Logger: logger},
			Logger:   logger,
		}
		worker.Start(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	if worker != nil {
		worker.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("stopped")
}
