package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/media"
)

type stubPolicy struct {
	limitMB int64
	err     error
}

func (s *stubPolicy) GetCleanupConfig() (*database.CleanupConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &database.CleanupConfig{MaxStoreSizeMB: s.limitMB}, nil
}

type fixture struct {
	store  *media.Store
	runner *Runner
}

func newFixture(t *testing.T, limitMB int64) *fixture {
	t.Helper()
	store := media.NewStore(t.TempDir())
	runner := New(&stubPolicy{limitMB: limitMB}, store, time.Hour)
	return &fixture{store: store, runner: runner}
}

// writeImage places a file of sizeMB megabytes directly in the images
// directory; name ordering stands in for creation ordering.
func (f *fixture) writeImage(t *testing.T, name string, sizeMB int) {
	t.Helper()
	if err := os.MkdirAll(f.store.ImagesDir(), 0o755); err != nil {
		t.Fatalf("mkdir images failed: %v", err)
	}
	// Sparse files keep the test cheap while stat still reports full sizes.
	path := filepath.Join(f.store.ImagesDir(), name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write image failed: %v", err)
	}
	if err := os.Truncate(path, int64(sizeMB)*1024*1024); err != nil {
		t.Fatalf("truncate image failed: %v", err)
	}
}

func (f *fixture) writePreview(t *testing.T, name string) {
	t.Helper()
	if err := os.MkdirAll(f.store.PreviewsDir(), 0o755); err != nil {
		t.Fatalf("mkdir previews failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(f.store.PreviewsDir(), name), []byte("p"), 0o644); err != nil {
		t.Fatalf("write preview failed: %v", err)
	}
}

func (f *fixture) imageNames(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.store.ImagesDir())
	if err != nil {
		t.Fatalf("read images dir failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunMissingDirectoryIsNoop(t *testing.T) {
	f := newFixture(t, 100)

	report, err := f.runner.Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.DeletedImages != 0 || report.BytesRemaining != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunEmptyDirectoryIsNoop(t *testing.T) {
	f := newFixture(t, 100)
	if err := os.MkdirAll(f.store.ImagesDir(), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	report, err := f.runner.Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.DeletedImages != 0 {
		t.Errorf("deleted %d images from empty store", report.DeletedImages)
	}
}

func TestRunUnderLimitDeletesNothing(t *testing.T) {
	f := newFixture(t, 100)
	f.writeImage(t, "20250101_000000_000001.jpg", 10)
	f.writeImage(t, "20250101_000000_000002.jpg", 20)

	report, err := f.runner.Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.DeletedImages != 0 {
		t.Errorf("deleted %d images while under limit", report.DeletedImages)
	}
	if want := int64(30 * 1024 * 1024); report.BytesRemaining != want {
		t.Errorf("BytesRemaining = %d, want %d", report.BytesRemaining, want)
	}
	if got := f.imageNames(t); len(got) != 2 {
		t.Errorf("%d images remain, want 2", len(got))
	}
}

func TestRunDeletesOldestUntilUnderLimit(t *testing.T) {
	// 200 + 150 + 100 MB against a 300 MB limit: only the oldest goes, since
	// 150 + 100 = 250 <= 300.
	f := newFixture(t, 300)
	f.writeImage(t, "20250101_000000_000001.jpg", 200)
	f.writeImage(t, "20250102_000000_000001.jpg", 150)
	f.writeImage(t, "20250103_000000_000001.jpg", 100)
	f.writePreview(t, "20250101_000000_000001.jpg")
	f.writePreview(t, "20250103_000000_000001.jpg")

	report, err := f.runner.Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if report.DeletedImages != 1 {
		t.Errorf("DeletedImages = %d, want 1", report.DeletedImages)
	}
	if report.DeletedPreviews != 1 {
		t.Errorf("DeletedPreviews = %d, want 1", report.DeletedPreviews)
	}
	if want := int64(250 * 1024 * 1024); report.BytesRemaining != want {
		t.Errorf("BytesRemaining = %d, want %d", report.BytesRemaining, want)
	}

	remaining := f.imageNames(t)
	if len(remaining) != 2 {
		t.Fatalf("%d images remain, want 2", len(remaining))
	}
	if remaining[0] != "20250102_000000_000001.jpg" {
		t.Errorf("oldest surviving image = %s, want the second one", remaining[0])
	}

	// The newest preview must be untouched.
	if _, err := os.Stat(filepath.Join(f.store.PreviewsDir(), "20250103_000000_000001.jpg")); err != nil {
		t.Errorf("surviving preview missing: %v", err)
	}
	// The deleted image's preview must be gone.
	if _, err := os.Stat(filepath.Join(f.store.PreviewsDir(), "20250101_000000_000001.jpg")); !os.IsNotExist(err) {
		t.Errorf("deleted image's preview still present (err=%v)", err)
	}
}

func TestRunDeletesMultipleWhenNeeded(t *testing.T) {
	f := newFixture(t, 100)
	f.writeImage(t, "20250101_000000_000001.jpg", 80)
	f.writeImage(t, "20250102_000000_000001.jpg", 80)
	f.writeImage(t, "20250103_000000_000001.jpg", 80)

	report, err := f.runner.Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// 240 MB total; dropping the two oldest reaches 80 <= 100.
	if report.DeletedImages != 2 {
		t.Errorf("DeletedImages = %d, want 2", report.DeletedImages)
	}
	remaining := f.imageNames(t)
	if len(remaining) != 1 || remaining[0] != "20250103_000000_000001.jpg" {
		t.Errorf("remaining images = %v, want only the newest", remaining)
	}
}

func TestRunMissingPreviewIsNotAnError(t *testing.T) {
	f := newFixture(t, 1)
	f.writeImage(t, "20250101_000000_000001.jpg", 2)

	report, err := f.runner.Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.DeletedImages != 1 || report.DeletedPreviews != 0 {
		t.Errorf("report = %+v, want 1 image and 0 previews deleted", report)
	}
}

func TestRunPolicyErrorAbortsCycle(t *testing.T) {
	store := media.NewStore(t.TempDir())
	runner := New(&stubPolicy{err: errors.New("database locked")}, store, time.Hour)

	if _, err := runner.Run(); err == nil {
		t.Error("Run() succeeded despite policy read failure")
	}
}
