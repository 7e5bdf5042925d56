package metrics

import (
	"time"

	"screensaver-bot/internal/logging"
)

// Stats holds the gauges the collector refreshes each cycle.
type Stats struct {
	TotalSources   int
	EnabledSources int
	LogEntries     int
	StoreImages    int
	StoreBytes     int64
}

// StatsProvider supplies a point-in-time snapshot of store statistics.
type StatsProvider interface {
	GetStats() (Stats, error)
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats, err := c.statsProvider.GetStats()
	if err != nil {
		logging.Warn("Metrics collection failed: %v", err)
		return
	}

	SourcesTotal.WithLabelValues("enabled").Set(float64(stats.EnabledSources))
	SourcesTotal.WithLabelValues("disabled").Set(float64(stats.TotalSources - stats.EnabledSources))
	LogEntriesTotal.Set(float64(stats.LogEntries))
	StoreImagesTotal.Set(float64(stats.StoreImages))
	StoreSizeBytes.Set(float64(stats.StoreBytes))

	logging.Debug("Metrics collected: sources=%d (enabled=%d), images=%d, bytes=%d",
		stats.TotalSources, stats.EnabledSources, stats.StoreImages, stats.StoreBytes)
}
