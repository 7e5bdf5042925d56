package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/logging"
	"screensaver-bot/internal/media"
	"screensaver-bot/internal/metrics"
)

const (
	// fetchTimeout bounds one bulk image download.
	fetchTimeout = 30 * time.Second

	// maxImageBytes caps how much of a response body is read.
	maxImageBytes = 64 << 20 // 64 MiB
)

// SourceStore is the part of the database the poller needs. Satisfied by
// *database.Database.
type SourceStore interface {
	ListEnabledSources() ([]database.Source, error)
	TouchSource(id int64, fetchedAt time.Time) error
}

// Fetcher polls the enabled HTTP sources that are due for a refresh.
type Fetcher struct {
	db       SourceStore
	store    *media.Store
	client   *http.Client
	interval time.Duration
	stopChan chan struct{}
	now      func() time.Time
}

// NewFetcher creates a Fetcher that runs a polling batch every batchInterval.
func NewFetcher(db SourceStore, store *media.Store, batchInterval time.Duration) *Fetcher {
	if batchInterval <= 0 {
		batchInterval = 5 * time.Minute
	}
	return &Fetcher{
		db:       db,
		store:    store,
		client:   &http.Client{Timeout: fetchTimeout},
		interval: batchInterval,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// FetchImage downloads raw image bytes from url, validating that the
// response declares an image content type.
func (f *Fetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	logging.Debug("FetchImage: GET %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, url, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: Content-Type %q", ErrContentType, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	logging.Info("Fetched image from %s (%.1f KB, Content-Type: %s)",
		url, float64(len(data))/1024, contentType)
	return data, nil
}

// RunBatch walks the enabled sources in listing order and refreshes every
// one that is due. A failing source is logged and skipped; the batch always
// runs to the end.
func (f *Fetcher) RunBatch(ctx context.Context) error {
	sources, err := f.db.ListEnabledSources()
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	metrics.FetchBatchesTotal.Inc()
	logging.Info("Polling batch: checking %d source(s)", len(sources))

	for _, src := range sources {
		if !IsDue(src, f.now()) {
			logging.Debug("[%s] not due yet, skipping", src.Name)
			metrics.FetchesTotal.WithLabelValues("poll", "skipped").Inc()
			continue
		}

		if err := f.fetchSource(ctx, src); err != nil {
			logging.Error("[%s] failed: %v", src.Name, err)
			metrics.FetchesTotal.WithLabelValues("poll", "error").Inc()
			continue
		}
		metrics.FetchesTotal.WithLabelValues("poll", "success").Inc()
	}
	return nil
}

func (f *Fetcher) fetchSource(ctx context.Context, src database.Source) error {
	logging.Info("[%s] fetching %s", src.Name, src.URL)

	data, err := f.FetchImage(ctx, src.URL)
	if err != nil {
		return err
	}

	imagePath, err := f.store.SaveImage(data)
	if err != nil {
		return err
	}
	metrics.ImagesSavedTotal.WithLabelValues("poll").Inc()

	if _, err := f.store.GeneratePreview(imagePath); err != nil {
		return err
	}

	if err := f.db.TouchSource(src.ID, f.now()); err != nil {
		return err
	}

	logging.Info("[%s] saved: %s", src.Name, filepath.Base(imagePath))
	return nil
}

// Start begins the periodic polling loop. The first batch runs immediately;
// the due check keeps that cheap.
func (f *Fetcher) Start() {
	go func() {
		if err := f.RunBatch(context.Background()); err != nil {
			logging.Error("Polling batch failed: %v", err)
		}

		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := f.RunBatch(context.Background()); err != nil {
					logging.Error("Polling batch failed: %v", err)
				}
			case <-f.stopChan:
				return
			}
		}
	}()
}

// Stop halts the periodic polling loop.
func (f *Fetcher) Stop() {
	close(f.stopChan)
}
