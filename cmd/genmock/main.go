// Command genmock writes a synthetic copy of the published datasets: the
// frost table, the station index and one cumulative GDD series per station.
// Temperatures follow a sinusoidal daily-mean normal per site, so the
// output is deterministic and good enough for local runs and fixtures.
//
// Usage:
//
//	go run ./cmd/genmock -out data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/couchcryptid/gdd-planner/internal/dataset"
	"github.com/couchcryptid/gdd-planner/internal/domain"
)

// frostMeanF is the daily mean below which a site is treated as frosty.
// A mean near 48°F puts the overnight low around freezing.
const frostMeanF = 48.0

// coldestDay is the day of year with the lowest normal (mid-January).
const coldestDay = 15

// site is one synthetic location published under each of its keys.
type site struct {
	keys      []string
	name      string
	region    string
	country   string
	stationID string // "" publishes frost dates without station coverage
	meanF     float64
	amplF     float64
}

var sites = []site{
	{keys: []string{"55401", "554"}, name: "Minneapolis", region: "MN", country: "US", stationID: "USW00014922", meanF: 46, amplF: 30},
	{keys: []string{"97201", "972"}, name: "Portland", region: "OR", country: "US", stationID: "USW00024229", meanF: 54, amplF: 14},
	{keys: []string{"30301", "303"}, name: "Atlanta", region: "GA", country: "US", stationID: "USW00013874", meanF: 62, amplF: 18},
	{keys: []string{"80202", "802"}, name: "Denver", region: "CO", country: "US", stationID: "USW00023062", meanF: 51, amplF: 22},
	{keys: []string{"T5A"}, name: "Edmonton", region: "AB", country: "CA", stationID: "CA003012216", meanF: 38, amplF: 28},
	{keys: []string{"H2X"}, name: "Montreal", region: "QC", country: "CA", stationID: "CA007025250", meanF: 43, amplF: 29},
	{keys: []string{"99701", "997"}, name: "Fairbanks", region: "AK", country: "US", meanF: 28, amplF: 35},
}

type frostRow struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	LastFrost   string `json:"lastFrost"`
	FirstFrost  string `json:"firstFrost"`
	SourceLabel string `json:"sourceLabel"`
}

type stationFile struct {
	StationID string               `json:"station_id"`
	Bases     map[string][]float64 `json:"bases"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the generated datasets")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	return generate(*out, sites)
}

func generate(dir string, sites []site) error {
	var frost []frostRow
	index := map[string]string{}
	series := map[string]stationFile{}

	for _, s := range sites {
		normals := dailyNormals(s.meanF, s.amplF)
		last, first, ok := frostDays(normals)
		if !ok {
			log.Printf("%s: no frost season, skipping", s.name)
			continue
		}

		for _, key := range s.keys {
			frost = append(frost, frostRow{
				Key:         key,
				Name:        s.name,
				Region:      s.region,
				Country:     s.country,
				LastFrost:   last.MMDD(),
				FirstFrost:  first.MMDD(),
				SourceLabel: "Synthetic normals",
			})
			if s.stationID != "" {
				index[key] = s.stationID
			}
		}

		if s.stationID != "" {
			series[s.stationID] = stationFile{StationID: s.stationID, Bases: cumulativeBases(normals)}
		}
		log.Printf("%s: last frost %s, first frost %s, station %q", s.name, last.Label(), first.Label(), s.stationID)
	}

	if err := writeJSON(filepath.Join(dir, dataset.FrostPath), frost); err != nil {
		return fmt.Errorf("writing frost dates: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, dataset.StationIndexPath), index); err != nil {
		return fmt.Errorf("writing station index: %w", err)
	}

	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := writeJSON(filepath.Join(dir, filepath.FromSlash(dataset.SeriesPath(id))), series[id]); err != nil {
			return fmt.Errorf("writing station %s: %w", id, err)
		}
	}

	log.Printf("wrote %d frost rows, %d index keys, %d stations to %s", len(frost), len(index), len(ids), dir)
	return nil
}

// dailyNormals returns the mean temperature for each day of the year.
func dailyNormals(meanF, amplF float64) []float64 {
	out := make([]float64, domain.DaysInYear)
	for d := range out {
		phase := 2 * math.Pi * float64(d-coldestDay) / domain.DaysInYear
		out[d] = meanF - amplF*math.Cos(phase)
	}
	return out
}

// frostDays finds the last frosty day before midsummer and the first one
// after it. ok is false when the site never drops below frostMeanF or
// never rises above it.
func frostDays(normals []float64) (last, first domain.DayOfYear, ok bool) {
	mid := domain.DayOfYear(coldestDay + domain.DaysInYear/2)
	if normals[mid] < frostMeanF {
		return domain.NoDay, domain.NoDay, false
	}

	last, first = domain.NoDay, domain.NoDay
	for d := mid; d >= 0; d-- {
		if normals[d] < frostMeanF {
			last = d
			break
		}
	}
	for d := mid; d < domain.DaysInYear; d++ {
		if normals[d] < frostMeanF {
			first = d
			break
		}
	}
	return last, first, last.Valid() && first.Valid()
}

// cumulativeBases accumulates simple-average degree days for every base,
// rounded to one decimal place.
func cumulativeBases(normals []float64) map[string][]float64 {
	bases := make(map[string][]float64, len(domain.BaseKeys))
	for _, key := range domain.BaseKeys {
		baseF, err := strconv.ParseFloat(key, 64)
		if err != nil {
			continue
		}

		cum := make([]float64, len(normals))
		total := 0.0
		for d, t := range normals {
			total += math.Max(0, t-baseF)
			cum[d] = math.Round(total*10) / 10
		}
		bases[key] = cum
	}
	return bases
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
