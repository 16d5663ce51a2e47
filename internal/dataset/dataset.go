// Package dataset provides cached, read-only access to the published frost
// and GDD datasets.
//
// Each accessor loads a resource at most once per process. Concurrent
// callers asking for the same resource share a single fetch, and the outcome
// (success or failure) is kept for the life of the accessor. Failures are
// logged and absorbed; callers see a reason or a nil result, never an error.
package dataset

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/gdd-planner/internal/observability"
)

// Dataset file locations relative to the dataset root.
const (
	FrostPath        = "frost-dates.json"
	StationIndexPath = "gdd-stations.json"
	seriesDir        = "gdd-stations"
)

// Metric label values.
const (
	labelFrost    = "frost"
	labelStations = "stations"
	labelSeries   = "series"
)

// Fetcher retrieves a dataset file by its path relative to the dataset root.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// SeriesPath is the location of a station's cumulative series file.
func SeriesPath(stationID string) string {
	return seriesDir + "/" + url.PathEscape(stationID) + ".json"
}

type outcome[T any] struct {
	value T
	err   error
}

// onceCache memoizes one load per key. In-flight loads are shared through a
// singleflight group; settled outcomes live in done.
type onceCache[T any] struct {
	name    string
	metrics *observability.Metrics
	logger  *slog.Logger

	mu    sync.Mutex
	done  map[string]outcome[T]
	group singleflight.Group
}

func newOnceCache[T any](name string, logger *slog.Logger, metrics *observability.Metrics) *onceCache[T] {
	return &onceCache[T]{
		name:    name,
		metrics: metrics,
		logger:  logger,
		done:    make(map[string]outcome[T]),
	}
}

func (c *onceCache[T]) settled(key string) (outcome[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.done[key]
	return o, ok
}

// get returns the cached outcome for key, running load on first use. The load
// runs detached from ctx so a caller that gives up never leaves a
// cancellation error in the cache; that caller alone gets ctx.Err().
func (c *onceCache[T]) get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if o, ok := c.settled(key); ok {
		c.metrics.DatasetCache.WithLabelValues(c.name, "hit").Inc()
		return o.value, o.err
	}
	c.metrics.DatasetCache.WithLabelValues(c.name, "miss").Inc()

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if o, ok := c.settled(key); ok {
			return o.value, o.err
		}

		start := time.Now()
		value, err := load(detached)
		c.metrics.DatasetFetchDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
		if err != nil {
			c.metrics.DatasetFetches.WithLabelValues(c.name, "error").Inc()
			c.logger.Warn("dataset load failed", "dataset", c.name, "key", key, "error", err)
		} else {
			c.metrics.DatasetFetches.WithLabelValues(c.name, "success").Inc()
		}

		c.mu.Lock()
		c.done[key] = outcome[T]{value: value, err: err}
		c.mu.Unlock()
		return value, err
	})

	select {
	case res := <-ch:
		value, _ := res.Val.(T)
		return value, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
