package media

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"screensaver-bot/internal/logging"
	"screensaver-bot/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// PreviewWidth is the fixed width of generated preview thumbnails.
	PreviewWidth = 400

	imageQuality   = 90
	previewQuality = 85
)

// Store is the content store: normalized JPEGs under images/ and derived
// thumbnails under previews/.
type Store struct {
	imagesDir   string
	previewsDir string

	// Filename generation is serialized so two saves in the same microsecond
	// cannot collide; the clock is a field so tests can pin it.
	nameMu   sync.Mutex
	lastName time.Time
	now      func() time.Time
}

// NewStore creates a Store rooted at mediaDir. Directories are created
// lazily on first write.
func NewStore(mediaDir string) *Store {
	return &Store{
		imagesDir:   filepath.Join(mediaDir, "images"),
		previewsDir: filepath.Join(mediaDir, "previews"),
		now:         time.Now,
	}
}

// ImagesDir returns the directory holding normalized images.
func (s *Store) ImagesDir() string { return s.imagesDir }

// PreviewsDir returns the directory holding preview thumbnails.
func (s *Store) PreviewsDir() string { return s.previewsDir }

// SaveImage decodes data (JPEG, PNG, GIF or WEBP), re-encodes it as a flat
// RGB JPEG at quality 90, and writes it to the images directory under a
// timestamp-derived name. The returned path identifies the stored image.
//
// The .jpg extension is always accurate because the content is always
// re-encoded, never passed through unchanged.
func (s *Store) SaveImage(data []byte) (string, error) {
	start := time.Now()

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// Clone flattens whatever the decoder produced (paletted GIF, RGBA PNG,
	// YCbCr JPEG) into 8-bit-per-channel pixels; the JPEG encoder below drops
	// alpha, so downstream consumers always see a 3-channel image.
	flat := imaging.Clone(img)

	if err := os.MkdirAll(s.imagesDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating images directory: %v", ErrStore, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: imageQuality}); err != nil {
		return "", fmt.Errorf("%w: encoding jpeg: %v", ErrStore, err)
	}

	name := s.nextName()
	dest := filepath.Join(s.imagesDir, name)
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", ErrStore, name, err)
	}

	metrics.SaveImageDuration.Observe(time.Since(start).Seconds())
	logging.Info("Image saved: %s | source %dx%d | jpeg %.1f KB",
		name, img.Bounds().Dx(), img.Bounds().Dy(), float64(buf.Len())/1024)
	return dest, nil
}

// GeneratePreview derives a PreviewWidth-wide thumbnail from the stored image
// at imagePath, writing it to the previews directory under the same base
// name. If a preview with that name already exists the call is a no-op; the
// name is the existence check, the content is not verified.
func (s *Store) GeneratePreview(imagePath string) (string, error) {
	name := filepath.Base(imagePath)
	dest := filepath.Join(s.previewsDir, name)

	if _, err := os.Stat(dest); err == nil {
		metrics.PreviewCacheHits.Inc()
		logging.Debug("Preview exists, skipping: %s", name)
		return dest, nil
	}

	if err := os.MkdirAll(s.previewsDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating previews directory: %v", ErrStore, err)
	}

	encoded, w, h, tw, th, err := s.renderPreview(imagePath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(dest, encoded, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing preview %s: %v", ErrStore, name, err)
	}

	metrics.PreviewsGeneratedTotal.Inc()
	logging.Info("Preview generated: %s (%dx%d -> %dx%d)", name, w, h, tw, th)
	return dest, nil
}

// renderPreview produces the encoded preview bytes plus source and target
// dimensions. libvips is used when available (decode-time shrinking), with
// the pure-Go imaging path as fallback.
func (s *Store) renderPreview(imagePath string) (encoded []byte, w, h, tw, th int, err error) {
	if IsVipsAvailable() {
		encoded, w, h, tw, th, err = renderPreviewWithVips(imagePath)
		if err == nil {
			return encoded, w, h, tw, th, nil
		}
		logging.Debug("vips preview failed for %s, falling back: %v", filepath.Base(imagePath), err)
	}

	img, err := imaging.Open(imagePath)
	if err != nil {
		return nil, 0, 0, 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	w, h = img.Bounds().Dx(), img.Bounds().Dy()
	tw, th = PreviewWidth, PreviewHeight(w, h)

	thumb := imaging.Resize(img, tw, th, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, 0, 0, 0, 0, fmt.Errorf("%w: encoding preview: %v", ErrStore, err)
	}
	return buf.Bytes(), w, h, tw, th, nil
}

// PreviewHeight computes the preview height preserving the source aspect
// ratio at PreviewWidth, never less than one pixel.
func PreviewHeight(srcWidth, srcHeight int) int {
	if srcWidth <= 0 {
		return 1
	}
	h := int(math.Round(float64(srcHeight) * PreviewWidth / float64(srcWidth)))
	if h < 1 {
		return 1
	}
	return h
}

// nextName returns a fresh timestamp-derived filename. UTC at microsecond
// granularity, formatted so lexical sort order equals chronological order;
// monotonic within the process.
func (s *Store) nextName() string {
	s.nameMu.Lock()
	defer s.nameMu.Unlock()

	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(s.lastName) {
		now = s.lastName.Add(time.Microsecond)
	}
	s.lastName = now

	return now.Format("20060102_150405") + fmt.Sprintf("_%06d.jpg", now.Nanosecond()/1000)
}
