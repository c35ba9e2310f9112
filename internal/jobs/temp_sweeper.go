package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/afero"

	"XuLyNoSaas/internal/logger"
	"XuLyNoSaas/internal/storage"
)

// SweeperConfig drives the staged-file orphan sweep. Files sitting in the
// temp directory longer than MaxAgeMins were staged but never relocated,
// usually because an upload failed mid-flight.
type SweeperConfig struct {
	Schedule   string
	MaxAgeMins int
	TimeZone   string
}

// RunTempSweeper schedules the sweep and returns; the cron runner owns the
// goroutine from here.
func RunTempSweeper(cfg SweeperConfig, root *storage.SafeRoot) error {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		removed, err := SweepTempDir(root, time.Duration(cfg.MaxAgeMins)*time.Minute)
		if err != nil {
			logger.Audit(fmt.Sprintf("temp sweep failed: %v", err))
			return
		}
		if removed > 0 {
			logger.Audit(fmt.Sprintf("temp sweep removed %d orphaned staged file(s)", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("bad sweep schedule %q: %w", cfg.Schedule, err)
	}

	c.Start()
	return nil
}

// SweepTempDir removes staged files older than maxAge and reports how many
// went. A missing temp directory is not an error; nothing was ever staged.
func SweepTempDir(root *storage.SafeRoot, maxAge time.Duration) (int, error) {
	tempDir := filepath.Join(root.Base(), storage.TempDirName)
	fs := root.Fs()

	entries, err := afero.ReadDir(fs, tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.ModTime().After(cutoff) {
			continue
		}
		stale := filepath.Join(tempDir, entry.Name())
		if err := fs.Remove(stale); err != nil {
			logger.Audit(fmt.Sprintf("temp sweep could not remove %s: %v", stale, err))
			continue
		}
		removed++
	}
	return removed, nil
}
