package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/observability"
)

// StationLookup is the detailed outcome of a station index lookup. On a hit
// Key is the candidate that matched, which may be the ZIP3 prefix.
type StationLookup struct {
	Key       string
	StationID string
	Reason    domain.LookupReason
}

// StationIndex maps location keys to GDD station ids.
type StationIndex struct {
	fetcher Fetcher
	cache   *onceCache[map[string]string]
}

// NewStationIndex creates a station index accessor backed by fetcher.
func NewStationIndex(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *StationIndex {
	return &StationIndex{
		fetcher: fetcher,
		cache:   newOnceCache[map[string]string](labelStations, logger, metrics),
	}
}

// LookupDetailed resolves raw to a station id. map_load_failed is reported
// only when no candidate matched and the index failed to load.
func (s *StationIndex) LookupDetailed(ctx context.Context, raw string) StationLookup {
	key := domain.NormalizeKey(raw)
	if key == "" {
		return StationLookup{Reason: domain.ReasonEmpty}
	}

	index, err := s.cache.get(ctx, StationIndexPath, s.load)
	for _, candidate := range domain.CandidateKeys(key) {
		if id := index[candidate]; id != "" {
			return StationLookup{Key: candidate, StationID: id, Reason: domain.ReasonOK}
		}
	}

	if err != nil {
		return StationLookup{Key: key, Reason: domain.ReasonMapLoadFailed}
	}
	return StationLookup{Key: key, Reason: domain.ReasonNotFound}
}

// LookupStationID is LookupDetailed without the reason; "" means no station.
func (s *StationIndex) LookupStationID(ctx context.Context, raw string) string {
	return s.LookupDetailed(ctx, raw).StationID
}

func (s *StationIndex) load(ctx context.Context) (map[string]string, error) {
	data, err := s.fetcher.Fetch(ctx, StationIndexPath)
	if err != nil {
		return nil, err
	}
	return decodeStationIndex(data)
}

// decodeStationIndex reads the key -> station id object. A well-formed
// payload that is not an object yields an empty index. Values that are not
// a non-empty string or a non-zero number are dropped.
func decodeStationIndex(data []byte) (map[string]string, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode station index: %w", err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return map[string]string{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode station index: %w", err)
	}

	index := make(map[string]string, len(raw))
	for key, value := range raw {
		if id := stationIDValue(value); id != "" {
			index[key] = id
		}
	}
	return index, nil
}

func stationIDValue(value json.RawMessage) string {
	v := bytes.TrimSpace(value)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f', 'n', '{', '[':
		return ""
	}

	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil || f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CheckReadiness loads the station index if needed and reports whether it is
// available.
func (s *StationIndex) CheckReadiness(ctx context.Context) error {
	if _, err := s.cache.get(ctx, StationIndexPath, s.load); err != nil {
		return fmt.Errorf("station index unavailable: %w", err)
	}
	return nil
}
