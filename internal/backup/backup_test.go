package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	data string
	err  error
}

func (f fakeSource) Backup(w io.Writer) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := io.WriteString(w, f.data)
	return int64(n), err
}

type fakeUploader struct {
	keys []string
}

func (u *fakeUploader) UploadFile(ctx context.Context, key string, r io.Reader) (string, error) {
	u.keys = append(u.keys, key)
	return key, nil
}

func TestRunWritesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}
	clock := time.Date(2025, time.March, 10, 2, 0, 0, 0, time.UTC)
	job := &Job{
		Source: fakeSource{data: "snapshot"},
		Dir:    dir,
		Keep:   2,
		Upload: up,
		Now:    func() time.Time { return clock },
	}

	var paths []string
	for i := 0; i < 3; i++ {
		path, err := job.Run(context.Background())
		require.NoError(t, err)
		paths = append(paths, path)
		clock = clock.Add(24 * time.Hour)
	}

	assert.Equal(t, filepath.Join(dir, "listas_y_notas_20250310T020000.db"), paths[0])
	data, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(data))

	_, err = os.Stat(paths[0])
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.Len(t, up.keys, 3)
	assert.True(t, strings.HasPrefix(up.keys[0], "backups/listas_y_notas_"))
}

func TestRunReportsSnapshotErrors(t *testing.T) {
	job := &Job{Source: fakeSource{err: errors.New("closed")}, Dir: t.TempDir()}
	_, err := job.Run(context.Background())
	assert.Error(t, err)
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	_, err := Schedule("every day please", &Job{Source: fakeSource{}, Dir: t.TempDir()})
	assert.Error(t, err)

	c, err := Schedule("@daily", &Job{Source: fakeSource{}, Dir: t.TempDir()})
	require.NoError(t, err)
	c.Stop()
}
