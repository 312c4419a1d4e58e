// Package backup takes scheduled snapshots of the database file.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lorbeafus/Listas-y-Notas/internal/metrics"
	"github.com/lorbeafus/Listas-y-Notas/storage"
)

const (
	filePrefix = "listas_y_notas_"
	fileExt    = ".db"
	stampFmt   = "20060102T150405"
)

// Snapshotter writes a consistent copy of the database.
type Snapshotter interface {
	Backup(w io.Writer) (int64, error)
}

// Uploader keeps an off-site copy. *storage.Archive implements it.
type Uploader interface {
	UploadFile(ctx context.Context, key string, r io.Reader) (string, error)
}

type Job struct {
	Source Snapshotter
	Dir    string
	Keep   int      // snapshots kept in Dir; 0 keeps all
	Upload Uploader // optional
	Now    func() time.Time
}

// Run writes one snapshot, uploads it when an Uploader is set and prunes old
// files. It returns the path written.
func (j *Job) Run(ctx context.Context) (string, error) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	if err := os.MkdirAll(j.Dir, 0755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := j.Source.Backup(&buf); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}

	name := filePrefix + now().UTC().Format(stampFmt) + fileExt
	path := filepath.Join(j.Dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", err
	}

	if j.Upload != nil {
		if _, err := j.Upload.UploadFile(ctx, storage.BackupKey(name), bytes.NewReader(buf.Bytes())); err != nil {
			slog.Warn("backup upload failed", "file", name, "err", err)
		}
	}

	if err := j.prune(); err != nil {
		slog.Warn("backup prune failed", "dir", j.Dir, "err", err)
	}
	return path, nil
}

// prune removes the oldest snapshots beyond Keep. Names sort by time.
func (j *Job) prune() error {
	if j.Keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileExt) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for len(names) > j.Keep {
		if err := os.Remove(filepath.Join(j.Dir, names[0])); err != nil {
			return err
		}
		names = names[1:]
	}
	return nil
}

// Schedule runs job on schedule (standard cron syntax or descriptors such as
// "@daily"). The caller stops the returned scheduler.
func Schedule(schedule string, job *Job) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		path, err := job.Run(ctx)
		if err != nil {
			metrics.Backups.WithLabelValues(metrics.Failed).Inc()
			slog.Error("scheduled backup", "err", err)
			return
		}
		metrics.Backups.WithLabelValues(metrics.Accepted).Inc()
		slog.Info("scheduled backup written", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
