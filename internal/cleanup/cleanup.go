package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/logging"
	"screensaver-bot/internal/media"
	"screensaver-bot/internal/metrics"
)

// PolicyProvider supplies the current retention policy. Satisfied by
// *database.Database.
type PolicyProvider interface {
	GetCleanupConfig() (*database.CleanupConfig, error)
}

// Report summarizes one cleanup run.
type Report struct {
	DeletedImages   int   `json:"deletedImages"`
	DeletedPreviews int   `json:"deletedPreviews"`
	BytesRemaining  int64 `json:"bytesRemaining"`
}

// Runner runs the retention enforcement, on demand or on a schedule.
type Runner struct {
	policy      PolicyProvider
	imagesDir   string
	previewsDir string
	interval    time.Duration
	stopChan    chan struct{}
}

// New creates a Runner over the given content store.
func New(policy PolicyProvider, store *media.Store, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Runner{
		policy:      policy,
		imagesDir:   store.ImagesDir(),
		previewsDir: store.PreviewsDir(),
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Run performs one retention cycle. On a deletion failure the cycle is
// abandoned and the partial Report is returned alongside the error; the next
// run recomputes from a fresh snapshot.
func (r *Runner) Run() (Report, error) {
	metrics.CleanupRunsTotal.Inc()

	cfg, err := r.policy.GetCleanupConfig()
	if err != nil {
		return Report{}, fmt.Errorf("reading retention policy: %w", err)
	}
	limit := cfg.MaxStoreSizeBytes()

	entries, err := os.ReadDir(r.imagesDir)
	if os.IsNotExist(err) {
		logging.Info("Cleanup: images directory does not exist yet, nothing to do")
		return Report{}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("%w: reading images directory: %v", media.ErrStore, err)
	}

	// Snapshot names and sizes before deleting anything. Sizes are never
	// re-queried mid-deletion, so one run works against a single consistent
	// view. os.ReadDir returns entries sorted by name: oldest first.
	type imageFile struct {
		name string
		size int64
	}
	var (
		files []imageFile
		total int64
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return Report{}, fmt.Errorf("%w: stat %s: %v", media.ErrStore, entry.Name(), err)
		}
		files = append(files, imageFile{name: entry.Name(), size: info.Size()})
		total += info.Size()
	}

	if len(files) == 0 {
		logging.Info("Cleanup: no images found")
		return Report{}, nil
	}

	logging.Info("Cleanup: %.1f MB used / %d MB limit",
		float64(total)/1024/1024, cfg.MaxStoreSizeMB)

	report := Report{BytesRemaining: total}
	if total <= limit {
		logging.Info("Cleanup: within limit, no action needed")
		metrics.StoreSizeBytes.Set(float64(total))
		return report, nil
	}

	for _, f := range files {
		if report.BytesRemaining <= limit {
			break
		}

		if err := os.Remove(filepath.Join(r.imagesDir, f.name)); err != nil {
			return report, fmt.Errorf("%w: deleting image %s: %v", media.ErrStore, f.name, err)
		}
		report.BytesRemaining -= f.size
		report.DeletedImages++
		metrics.CleanupDeletedImages.Inc()
		logging.Info("Deleted image: %s", f.name)

		// A preview never outlives its image; a missing preview is fine.
		previewPath := filepath.Join(r.previewsDir, f.name)
		if err := os.Remove(previewPath); err == nil {
			report.DeletedPreviews++
			metrics.CleanupDeletedPreviews.Inc()
			logging.Info("Deleted preview: %s", f.name)
		} else if !os.IsNotExist(err) {
			return report, fmt.Errorf("%w: deleting preview %s: %v", media.ErrStore, f.name, err)
		}
	}

	metrics.StoreSizeBytes.Set(float64(report.BytesRemaining))
	logging.Info("Cleanup complete: deleted %d image(s), %d preview(s), %.1f MB remaining",
		report.DeletedImages, report.DeletedPreviews, float64(report.BytesRemaining)/1024/1024)
	return report, nil
}

// Start begins the periodic cleanup loop.
func (r *Runner) Start() {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := r.Run(); err != nil {
					logging.Error("Cleanup run failed: %v", err)
				}
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop halts the periodic cleanup loop.
func (r *Runner) Stop() {
	close(r.stopChan)
}
