package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"evcal/internal/config"
	"evcal/internal/db"
	"evcal/internal/event"
	httpx "evcal/internal/http"
	"evcal/internal/ics"
	"evcal/internal/jobs"
	"evcal/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		logger.Fatal("migrate db", zap.Error(err))
	}

	cats := event.DefaultCategories()
	if cfg.CategoriesFile != "" {
		if cats, err = event.LoadCategories(cfg.CategoriesFile); err != nil {
			logger.Fatal("load categories", zap.String("file", cfg.CategoriesFile), zap.Error(err))
		}
	}

	r := httpx.NewRouter(cfg, gdb, cats, logger)

	// export snapshot
	var sched *jobs.Scheduler
	if cfg.ExportCron != "" {
		snap := &jobs.Snapshot{
			Svc:      &event.Service{DB: gdb, Categories: cats},
			Exporter: ics.NewExporter(cfg.ICSProdID),
			Dir:      cfg.ExportDir,
			Log:      logger.Named("jobs"),
		}
		sched = jobs.NewScheduler(cfg.Location, logger.Named("jobs"))
		if _, err := sched.ScheduleSnapshot(cfg.ExportCron, snap, time.Minute); err != nil {
			logger.Fatal("schedule export", zap.Error(err))
		}
		sched.Start()
		logger.Info("export snapshot scheduled", zap.String("cron", cfg.ExportCron), zap.String("path", snap.Path()))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("tz", cfg.Location.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	if sched != nil {
		sched.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
