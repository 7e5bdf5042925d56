package media

import (
	"fmt"
	"path/filepath"
	"sync"

	"screensaver-bot/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library.
// This should be called once at startup.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Configure vips logging BEFORE Startup() to respect LOG_LEVEL
	var vipsLogLevel vips.LogLevel
	if logging.IsDebugEnabled() {
		vipsLogLevel = vips.LogLevelInfo
	} else {
		vipsLogLevel = vips.LogLevelWarning
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch {
		case level <= vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case level == vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}, vipsLogLevel)

	// Conservative memory settings: one image at a time is plenty for a
	// webhook-driven pipeline.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// renderPreviewWithVips produces preview JPEG bytes using libvips decode-time
// shrinking, which is far more memory efficient than decoding the full image
// and resizing in Go.
func renderPreviewWithVips(path string) (encoded []byte, w, h, tw, th int, err error) {
	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		return nil, 0, 0, 0, 0, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	w, h = ref.Width(), ref.Height()
	tw, th = PreviewWidth, PreviewHeight(w, h)

	logging.Debug("vips preview %s: %dx%d -> %dx%d", filepath.Base(path), w, h, tw, th)

	if err := ref.Thumbnail(tw, th, vips.InterestingNone); err != nil {
		return nil, 0, 0, 0, 0, fmt.Errorf("vips resize failed: %w", err)
	}

	encoded, _, err = ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        previewQuality,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, 0, 0, 0, 0, fmt.Errorf("vips export failed: %w", err)
	}
	return encoded, w, h, tw, th, nil
}
