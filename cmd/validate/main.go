// Command validate checks a published dataset directory for integrity: the
// frost table parses and its dates are real calendar days, every station
// index key has frost coverage, and every indexed station has a usable,
// non-decreasing cumulative series for each base it publishes.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/gdd-planner/internal/adapter/static"
	"github.com/couchcryptid/gdd-planner/internal/dataset"
	"github.com/couchcryptid/gdd-planner/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "directory holding frost-dates.json, gdd-stations.json and gdd-stations/")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(context.Background(), static.NewDir(*dataDir)); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, fetcher dataset.Fetcher) int {
	fmt.Println("=== GDD Dataset Validation ===")
	fmt.Println()

	frostData, err := fetcher.Fetch(ctx, dataset.FrostPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load frost dates: %v\n", err)
		return 1
	}
	indexData, err := fetcher.Fetch(ctx, dataset.StationIndexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load station index: %v\n", err)
		return 1
	}

	frostPhase, frostKeys := validateFrost(frostData)
	indexPhase, stationIDs := validateIndex(indexData, frostKeys)
	phases := []*phase{
		frostPhase,
		indexPhase,
		validateSeries(ctx, fetcher, stationIDs),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d frost keys, %d stations\n", len(frostKeys), len(stationIDs))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Frost dates ──

// validateFrost returns the phase and the set of uppercased keys it found.
func validateFrost(data []byte) (*phase, map[string]bool) {
	p := &phase{name: "Frost dates"}
	keys := map[string]bool{}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		p.errorf("%s is not a JSON array: %v", dataset.FrostPath, err)
		return p, keys
	}

	for i, row := range rows {
		var rec domain.FrostRecord
		if err := json.Unmarshal(row, &rec); err != nil {
			p.errorf("row %d: %v", i, err)
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(string(rec.Key)))
		if key == "" {
			p.errorf("row %d: missing key", i)
			continue
		}
		if keys[key] {
			p.errorf("row %d: duplicate key %s", i, key)
		}
		keys[key] = true

		last, first := rec.LastFrostDay(), rec.FirstFrostDay()
		if !last.Valid() {
			p.errorf("%s: invalid lastFrost %q", key, rec.LastFrost)
		}
		if !first.Valid() {
			p.errorf("%s: invalid firstFrost %q", key, rec.FirstFrost)
		}
		if last.Valid() && first.Valid() && last >= first {
			p.errorf("%s: last spring frost %s is not before first fall frost %s", key, last.Label(), first.Label())
		}
	}
	return p, keys
}

// ── Station index ──

// validateIndex returns the phase and the sorted distinct station ids.
func validateIndex(data []byte, frostKeys map[string]bool) (*phase, []string) {
	p := &phase{name: "Station index"}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		p.errorf("%s is not a JSON object", dataset.StationIndexPath)
		return p, nil
	}

	seen := map[string]bool{}
	for key, value := range raw {
		id, ok := stationID(value)
		if !ok {
			p.errorf("%s: station id %s is not a non-empty string or number", key, value)
			continue
		}
		if !frostKeys[strings.ToUpper(key)] {
			p.errorf("%s: indexed to %s but has no frost dates", key, id)
		}
		seen[id] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return p, ids
}

func stationID(value json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s, strings.TrimSpace(s) != ""
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err == nil {
		f, err := n.Float64()
		return n.String(), err == nil && f != 0
	}
	return "", false
}

// ── Station series ──

func validateSeries(ctx context.Context, fetcher dataset.Fetcher, ids []string) *phase {
	p := &phase{name: "Station series"}

	for _, id := range ids {
		data, err := fetcher.Fetch(ctx, dataset.SeriesPath(id))
		if err != nil {
			p.errorf("%s: %v", id, err)
			continue
		}
		series, err := domain.DecodeStationSeries(data)
		if err != nil {
			p.errorf("%s: %v", id, err)
			continue
		}
		if series.StationID != "" && series.StationID != id {
			p.errorf("%s: file declares station_id %s", id, series.StationID)
		}
		for _, key := range domain.BaseKeys {
			cum, ok := series.Bases[key]
			if !ok {
				continue
			}
			checkCumulative(p, id, key, cum)
		}
	}
	return p
}

func checkCumulative(p *phase, id, key string, cum domain.Cumulative) {
	if !cum.Usable() {
		p.errorf("%s base %s: %d entries, want at least %d", id, key, len(cum), domain.DaysInYear)
		return
	}
	for d := 1; d < len(cum); d++ {
		if cum[d] < cum[d-1] {
			p.errorf("%s base %s: decreases on %s (%.1f -> %.1f)", id, key, domain.DayOfYear(d).Label(), cum[d-1], cum[d])
			return
		}
	}
}
