package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Base temperature bucket keys, in °F.
const (
	Base40 = "40"
	Base45 = "45"
	Base50 = "50"
)

// BaseKeys lists the recognized base temperature buckets.
var BaseKeys = []string{Base40, Base45, Base50}

// Cumulative is a cumulative degree-day series indexed by day of year.
// Entry i is the total accumulated through day i.
type Cumulative []float64

// Usable reports whether the series covers the whole calendar.
func (c Cumulative) Usable() bool {
	return len(c) >= DaysInYear
}

// UnmarshalJSON decodes an array of numbers. Entries that are null,
// non-numeric, or numeric strings that do not parse decode as 0.
func (c *Cumulative) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode cumulative series: %w", err)
	}
	out := make(Cumulative, len(items))
	for i, item := range items {
		out[i] = numberOrZero(item)
	}
	*c = out
	return nil
}

// StationSeries holds one station's cumulative series per base temperature.
type StationSeries struct {
	StationID string                `json:"station_id,omitempty"`
	Bases     map[string]Cumulative `json:"bases"`
}

// Base returns the series for a bucket key, or nil when absent.
func (s *StationSeries) Base(key string) Cumulative {
	if s == nil {
		return nil
	}
	return s.Bases[key]
}

// ErrInvalidSeries reports a station payload that fails structural validation.
var ErrInvalidSeries = errors.New("invalid station series")

// DecodeStationSeries parses and validates a station payload. The payload
// must be an object with a "bases" object holding at least one recognized
// bucket as an array. Unrecognized buckets and non-array values are dropped.
func DecodeStationSeries(data []byte) (*StationSeries, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrInvalidSeries)
	}

	basesRaw, ok := raw["bases"]
	if !ok {
		return nil, fmt.Errorf("%w: missing bases", ErrInvalidSeries)
	}
	var bases map[string]json.RawMessage
	if err := json.Unmarshal(basesRaw, &bases); err != nil || bases == nil {
		return nil, fmt.Errorf("%w: bases is not an object", ErrInvalidSeries)
	}

	series := &StationSeries{Bases: make(map[string]Cumulative, len(BaseKeys))}
	for _, key := range BaseKeys {
		v, ok := bases[key]
		if !ok || !isJSONArray(v) {
			continue
		}
		var cum Cumulative
		if err := json.Unmarshal(v, &cum); err != nil {
			continue
		}
		series.Bases[key] = cum
	}
	if len(series.Bases) == 0 {
		return nil, fmt.Errorf("%w: no recognized base temperature", ErrInvalidSeries)
	}

	if idRaw, ok := raw["station_id"]; ok {
		var id string
		if json.Unmarshal(idRaw, &id) == nil {
			series.StationID = id
		}
	}
	return series, nil
}

// PickBaseKey selects the bucket for a crop base temperature by rounding
// down to the nearest available base. Non-finite bases select "50".
func PickBaseKey(baseF float64) string {
	if math.IsNaN(baseF) || math.IsInf(baseF, 0) {
		return Base50
	}
	switch {
	case baseF <= 40:
		return Base40
	case baseF <= 45:
		return Base45
	default:
		return Base50
	}
}

func isJSONArray(v json.RawMessage) bool {
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func numberOrZero(item json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(item, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}
	return 0
}
