package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/observability"
)

var errNotArray = errors.New("frost dataset is not a JSON array")

// FrostLookup is the detailed outcome of a frost lookup. Key is the
// normalized input; Record is set only when Reason is ok.
type FrostLookup struct {
	Key    string
	Record *domain.FrostRecord
	Reason domain.LookupReason
}

// FrostDataset resolves location keys to average frost dates.
type FrostDataset struct {
	fetcher Fetcher
	cache   *onceCache[map[string]*domain.FrostRecord]
}

// NewFrostDataset creates a frost accessor backed by fetcher.
func NewFrostDataset(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *FrostDataset {
	return &FrostDataset{
		fetcher: fetcher,
		cache:   newOnceCache[map[string]*domain.FrostRecord](labelFrost, logger, metrics),
	}
}

// LookupDetailed resolves raw to a frost record, trying the exact key and
// then the ZIP3 prefix. Keys compare case-insensitively.
func (d *FrostDataset) LookupDetailed(ctx context.Context, raw string) FrostLookup {
	key := domain.NormalizeKey(raw)
	if key == "" {
		return FrostLookup{Reason: domain.ReasonEmpty}
	}

	records, err := d.cache.get(ctx, FrostPath, d.load)
	if err != nil {
		return FrostLookup{Key: key, Reason: domain.ReasonMapLoadFailed}
	}

	for _, candidate := range domain.CandidateKeys(key) {
		if rec, ok := records[strings.ToUpper(candidate)]; ok {
			return FrostLookup{Key: key, Record: rec, Reason: domain.ReasonOK}
		}
	}
	return FrostLookup{Key: key, Reason: domain.ReasonNotFound}
}

// Lookup is LookupDetailed without the reason.
func (d *FrostDataset) Lookup(ctx context.Context, raw string) *domain.FrostRecord {
	return d.LookupDetailed(ctx, raw).Record
}

func (d *FrostDataset) load(ctx context.Context) (map[string]*domain.FrostRecord, error) {
	data, err := d.fetcher.Fetch(ctx, FrostPath)
	if err != nil {
		return nil, err
	}
	return decodeFrostRecords(data)
}

// decodeFrostRecords indexes records by uppercased key. Rows that are not
// objects or have no key are skipped; the first row wins on duplicates.
func decodeFrostRecords(data []byte) (map[string]*domain.FrostRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("decode frost dataset: %w", err)
	}

	records := make(map[string]*domain.FrostRecord, len(rows))
	for _, row := range rows {
		var rec domain.FrostRecord
		if err := json.Unmarshal(row, &rec); err != nil {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(string(rec.Key)))
		if key == "" {
			continue
		}
		if _, dup := records[key]; !dup {
			records[key] = &rec
		}
	}
	return records, nil
}

// CheckReadiness loads the frost dataset if needed and reports whether it is
// available.
func (d *FrostDataset) CheckReadiness(ctx context.Context) error {
	if _, err := d.cache.get(ctx, FrostPath, d.load); err != nil {
		return fmt.Errorf("frost dataset unavailable: %w", err)
	}
	return nil
}
