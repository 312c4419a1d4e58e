package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lorbeafus/Listas-y-Notas/config"
	"github.com/lorbeafus/Listas-y-Notas/database"
	"github.com/lorbeafus/Listas-y-Notas/internal/backup"
	"github.com/lorbeafus/Listas-y-Notas/internal/handlers"
	"github.com/lorbeafus/Listas-y-Notas/internal/router"
	"github.com/lorbeafus/Listas-y-Notas/internal/workspace"
	"github.com/lorbeafus/Listas-y-Notas/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	slog.SetDefault(cfg.Logger())

	store, err := database.Init(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to init database:", err)
	}
	defer store.Close()

	env := &handlers.Env{
		Service:   workspace.NewService(store, cfg.Scheme, cfg.Location),
		MaxUpload: cfg.MaxUploadBytes,
	}

	var archive *storage.Archive
	if cfg.ArchiveEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		archive, err = storage.Open(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
		cancel()
		if err != nil {
			log.Fatalf("Error initializing storage: %v", err)
		}
		env.Archive = archive
		slog.Info("export archive ready", "bucket", cfg.B2Bucket)
	}

	if cfg.BackupSchedule != "" {
		job := &backup.Job{Source: store, Dir: cfg.BackupDir, Keep: cfg.BackupKeep}
		if archive != nil {
			job.Upload = archive
		}
		c, err := backup.Schedule(cfg.BackupSchedule, job)
		if err != nil {
			log.Fatalf("backup: %v", err)
		}
		defer c.Stop()
		slog.Info("scheduled backups enabled", "schedule", cfg.BackupSchedule, "dir", cfg.BackupDir)
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		router.Router(env, w, r)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server running", "url", "http://"+cfg.Addr, "db", cfg.DBPath, "scheme", cfg.Scheme, "tz", cfg.Location.String())
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server stopped", "err", err)
	}
}
