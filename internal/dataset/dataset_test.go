package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/observability"
)

// fakeFetcher serves canned payloads by path and counts fetches. When gate is
// set, every fetch blocks until it is closed.
type fakeFetcher struct {
	mu    sync.Mutex
	files map[string]string
	errs  map[string]error
	calls map[string]int
	total atomic.Int32
	gate  chan struct{}
}

func newFakeFetcher(files map[string]string) *fakeFetcher {
	return &fakeFetcher{files: files, errs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.total.Add(1)
	f.mu.Lock()
	f.calls[path]++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	body, ok := f.files[path]
	if !ok {
		return nil, errors.New("status 404")
	}
	return []byte(body), nil
}

func (f *fakeFetcher) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const frostJSON = `[
  {"key": "T5A", "name": "Edmonton", "region": "AB", "country": "CA", "lastFrost": "05-10", "firstFrost": "09-20", "sourceLabel": "ECCC normals"},
  {"key": 902, "name": "Inglewood", "region": "CA", "country": "US", "lastFrost": "01-15", "firstFrost": "12-15"},
  {"key": "10001", "name": "New York", "region": "NY", "country": "US", "lastFrost": "04-01", "firstFrost": "11-15"},
  {"key": "10001", "name": "Duplicate", "lastFrost": "01-01", "firstFrost": "12-31"},
  "not an object",
  {"name": "no key"}
]`

func TestFrostDataset_LookupDetailed(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{FrostPath: frostJSON})
	d := NewFrostDataset(fetcher, testLogger(), observability.NewMetricsForTesting())
	ctx := context.Background()

	tests := []struct {
		name   string
		input  string
		key    string
		place  string
		reason domain.LookupReason
	}{
		{"postal code with spaces", "t5a  ", "T5A", "Edmonton, AB", domain.ReasonOK},
		{"full postal code", "T5A 0A1", "T5A", "Edmonton, AB", domain.ReasonOK},
		{"zip5 exact", "10001", "10001", "New York, NY", domain.ReasonOK},
		{"zip3 fallback with numeric key", "90210", "90210", "Inglewood, CA", domain.ReasonOK},
		{"not found", "99999", "99999", "", domain.ReasonNotFound},
		{"empty", "   ", "", "", domain.ReasonEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.LookupDetailed(ctx, tt.input)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.key, got.Key)
			if tt.place == "" {
				assert.Nil(t, got.Record)
				return
			}
			require.NotNil(t, got.Record)
			assert.Equal(t, tt.place, got.Record.Place())
		})
	}

	assert.Equal(t, 1, fetcher.count(FrostPath), "dataset is fetched once")
	assert.Equal(t, "09-20", d.Lookup(ctx, "T5A").FirstFrost)
}

func TestFrostDataset_LoadFailureIsCached(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	fetcher.errs[FrostPath] = errors.New("connection refused")
	d := NewFrostDataset(fetcher, testLogger(), observability.NewMetricsForTesting())
	ctx := context.Background()

	assert.Equal(t, domain.ReasonMapLoadFailed, d.LookupDetailed(ctx, "T5A").Reason)

	delete(fetcher.errs, FrostPath)
	fetcher.files = map[string]string{FrostPath: frostJSON}
	assert.Equal(t, domain.ReasonMapLoadFailed, d.LookupDetailed(ctx, "T5A").Reason)
	assert.Nil(t, d.Lookup(ctx, "T5A"))
	assert.Equal(t, 1, fetcher.count(FrostPath))
}

func TestFrostDataset_NonArrayPayload(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{FrostPath: `{"T5A": {}}`})
	d := NewFrostDataset(fetcher, testLogger(), observability.NewMetricsForTesting())

	assert.Equal(t, domain.ReasonMapLoadFailed, d.LookupDetailed(context.Background(), "T5A").Reason)
}

func TestFrostDataset_EmptyInputSkipsFetch(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{FrostPath: frostJSON})
	d := NewFrostDataset(fetcher, testLogger(), observability.NewMetricsForTesting())

	assert.Nil(t, d.Lookup(context.Background(), "-- --"))
	assert.Zero(t, fetcher.count(FrostPath))
}

const indexJSON = `{
  "T5A": "CA003012205",
  "902": "USW00023174",
  "10001": "USW00094728",
  "606": 725300,
  "000": 0,
  "001": "",
  "002": null,
  "003": false
}`

func TestStationIndex_LookupDetailed(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{StationIndexPath: indexJSON})
	idx := NewStationIndex(fetcher, testLogger(), observability.NewMetricsForTesting())
	ctx := context.Background()

	tests := []struct {
		name      string
		input     string
		key       string
		stationID string
		reason    domain.LookupReason
	}{
		{"postal code", "t5a 0a1", "T5A", "CA003012205", domain.ReasonOK},
		{"zip5 exact", "10001", "10001", "USW00094728", domain.ReasonOK},
		{"zip3 fallback reports matched key", "90210", "902", "USW00023174", domain.ReasonOK},
		{"numeric station id", "60601", "606", "725300", domain.ReasonOK},
		{"zero value is absent", "00012", "00012", "", domain.ReasonNotFound},
		{"empty string is absent", "00123", "00123", "", domain.ReasonNotFound},
		{"null is absent", "00234", "00234", "", domain.ReasonNotFound},
		{"false is absent", "00345", "00345", "", domain.ReasonNotFound},
		{"empty input", "", "", "", domain.ReasonEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.LookupDetailed(ctx, tt.input)
			assert.Equal(t, StationLookup{Key: tt.key, StationID: tt.stationID, Reason: tt.reason}, got)
		})
	}

	assert.Equal(t, "USW00023174", idx.LookupStationID(ctx, "90210"))
	assert.Equal(t, 1, fetcher.count(StationIndexPath))
}

func TestStationIndex_LoadFailed(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{StationIndexPath: `{not json`})
	idx := NewStationIndex(fetcher, testLogger(), observability.NewMetricsForTesting())

	got := idx.LookupDetailed(context.Background(), "90210")
	assert.Equal(t, domain.ReasonMapLoadFailed, got.Reason)
	assert.Equal(t, "90210", got.Key)
	assert.Empty(t, got.StationID)
}

func TestStationIndex_NonObjectPayloadIsEmpty(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{StationIndexPath: `["T5A"]`})
	idx := NewStationIndex(fetcher, testLogger(), observability.NewMetricsForTesting())

	assert.Equal(t, domain.ReasonNotFound, idx.LookupDetailed(context.Background(), "T5A").Reason)
}

func fullSeriesJSON() string {
	b := []byte(`{"station_id": "USW00094728", "bases": {"50": [`)
	for i := 0; i < domain.DaysInYear; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '1', '0')
	}
	b = append(b, []byte(`], "40": "oops"}}`)...)
	return string(b)
}

func TestSeriesStore_Load(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		SeriesPath("USW00094728"): fullSeriesJSON(),
		SeriesPath("NOBASES"):     `{"station_id": "NOBASES"}`,
		SeriesPath("EMPTYBASES"):  `{"bases": {"60": [1, 2]}}`,
		SeriesPath("ARRAY"):       `[1, 2, 3]`,
	})
	store := NewSeriesStore(fetcher, testLogger(), observability.NewMetricsForTesting())
	ctx := context.Background()

	series := store.Load(ctx, " USW00094728 ")
	require.NotNil(t, series)
	assert.Equal(t, "USW00094728", series.StationID)
	assert.Len(t, series.Base(domain.Base50), domain.DaysInYear)
	assert.Nil(t, series.Base(domain.Base40), "non-array bucket is dropped")

	assert.Nil(t, store.Load(ctx, "NOBASES"))
	assert.Nil(t, store.Load(ctx, "EMPTYBASES"))
	assert.Nil(t, store.Load(ctx, "ARRAY"))
	assert.Nil(t, store.Load(ctx, "MISSING"))
	assert.Nil(t, store.Load(ctx, "   "))

	// Second round comes from the cache, including the failures.
	assert.NotNil(t, store.Load(ctx, "USW00094728"))
	assert.Nil(t, store.Load(ctx, "NOBASES"))
	assert.Nil(t, store.Load(ctx, "MISSING"))
	assert.Equal(t, 1, fetcher.count(SeriesPath("USW00094728")))
	assert.Equal(t, 1, fetcher.count(SeriesPath("NOBASES")))
	assert.Equal(t, 1, fetcher.count(SeriesPath("MISSING")))
	assert.Equal(t, int32(5), fetcher.total.Load())
}

func TestSeriesPath(t *testing.T) {
	assert.Equal(t, "gdd-stations/USW00094728.json", SeriesPath("USW00094728"))
	assert.Equal(t, "gdd-stations/CA%2F01%20X.json", SeriesPath("CA/01 X"))
}

func TestOnceCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{StationIndexPath: indexJSON})
	fetcher.gate = make(chan struct{})
	metrics := observability.NewMetricsForTesting()
	idx := NewStationIndex(fetcher, testLogger(), metrics)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = idx.LookupStationID(context.Background(), "90210")
		}()
	}

	require.Eventually(t, func() bool { return fetcher.count(StationIndexPath) == 1 }, time.Second, 5*time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	for _, id := range results {
		assert.Equal(t, "USW00023174", id)
	}
	assert.Equal(t, 1, fetcher.count(StationIndexPath))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetFetches.WithLabelValues(labelStations, "success")), 0)
}

func TestOnceCache_CanceledCallerDoesNotPoisonCache(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{FrostPath: frostJSON})
	fetcher.gate = make(chan struct{})
	d := NewFrostDataset(fetcher, testLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan FrostLookup)
	go func() { done <- d.LookupDetailed(ctx, "T5A") }()

	require.Eventually(t, func() bool { return fetcher.count(FrostPath) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.Equal(t, domain.ReasonMapLoadFailed, (<-done).Reason)

	close(fetcher.gate)
	require.Eventually(t, func() bool {
		return d.LookupDetailed(context.Background(), "T5A").Reason == domain.ReasonOK
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, fetcher.count(FrostPath))
}

func TestOnceCache_Metrics(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{FrostPath: frostJSON})
	metrics := observability.NewMetricsForTesting()
	d := NewFrostDataset(fetcher, testLogger(), metrics)
	ctx := context.Background()

	d.Lookup(ctx, "T5A")
	d.Lookup(ctx, "T5A")
	d.Lookup(ctx, "10001")

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetCache.WithLabelValues(labelFrost, "miss")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.DatasetCache.WithLabelValues(labelFrost, "hit")), 0)
}

func TestCheckReadiness(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{FrostPath: frostJSON})
	fetcher.errs[StationIndexPath] = errors.New("status 503")
	metrics := observability.NewMetricsForTesting()
	ctx := context.Background()

	assert.NoError(t, NewFrostDataset(fetcher, testLogger(), metrics).CheckReadiness(ctx))

	err := NewStationIndex(fetcher, testLogger(), metrics).CheckReadiness(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "station index unavailable")
}
