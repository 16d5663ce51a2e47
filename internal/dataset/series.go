package dataset

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/observability"
)

// SeriesStore loads per-station cumulative GDD series.
type SeriesStore struct {
	fetcher Fetcher
	cache   *onceCache[*domain.StationSeries]
}

// NewSeriesStore creates a series accessor backed by fetcher.
func NewSeriesStore(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *SeriesStore {
	return &SeriesStore{
		fetcher: fetcher,
		cache:   newOnceCache[*domain.StationSeries](labelSeries, logger, metrics),
	}
}

// Load returns the station's series, or nil when the id is blank, the file
// is missing, or the payload fails structural validation. Both outcomes are
// cached per station.
func (s *SeriesStore) Load(ctx context.Context, stationID string) *domain.StationSeries {
	id := strings.TrimSpace(stationID)
	if id == "" {
		return nil
	}

	series, err := s.cache.get(ctx, id, func(ctx context.Context) (*domain.StationSeries, error) {
		data, err := s.fetcher.Fetch(ctx, SeriesPath(id))
		if err != nil {
			return nil, err
		}
		series, err := domain.DecodeStationSeries(data)
		if err != nil {
			return nil, err
		}
		if series.StationID == "" {
			series.StationID = id
		}
		return series, nil
	})
	if err != nil {
		return nil
	}
	return series
}
