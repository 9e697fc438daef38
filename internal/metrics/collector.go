package metrics

import (
	"sync"
	"time"

	"asset-browser/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current cache statistics
type Stats struct {
	Collections      int
	Packs            int
	Assets           int
	InlineThumbnails int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
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
	c.stopOnce.Do(func() { close(c.stopChan) })
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

	stats := c.statsProvider.GetStats()

	CacheCollectionsTotal.Set(float64(stats.Collections))
	CachePacksTotal.Set(float64(stats.Packs))
	CacheAssetsTotal.Set(float64(stats.Assets))
	CacheInlineThumbnails.Set(float64(stats.InlineThumbnails))

	logging.Debug("Metrics collected: collections=%d, packs=%d, assets=%d, inline=%d",
		stats.Collections, stats.Packs, stats.Assets, stats.InlineThumbnails)
}
