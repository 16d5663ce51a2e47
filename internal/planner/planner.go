// Package planner runs one GDD maturity estimate end to end: it validates
// the request, resolves frost dates and the GDD station for the location,
// loads the station series and builds the multi-crop plan.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/gdd-planner/internal/catalog"
	"github.com/couchcryptid/gdd-planner/internal/dataset"
	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/observability"
)

// Status classifies the outcome of a run.
type Status string

const (
	StatusOK          Status = "ok"
	StatusInputError  Status = "input_error" // request rejected before any lookup
	StatusNoCoverage  Status = "no_coverage" // location or station data not published
	StatusUnavailable Status = "unavailable" // a dataset failed to load
	StatusFailed      Status = "failed"      // unexpected error during the run
)

// User-facing messages.
const (
	MsgSelectCrop      = "Select at least one crop to estimate."
	MsgInvalidPlanting = "Choose a valid planting date."
	MsgEnterLocation   = "Enter a 5-digit ZIP (U.S.) or the first 3 characters of your postal code (e.g., T5A)."
	MsgNoMatch         = "No match found for that ZIP / postal code. Try a nearby ZIP (U.S.) or FSA (Canada)."
	MsgNoCoverage      = "GDD station coverage isn’t available for this location yet."
	MsgStationsFailed  = "We couldn’t load GDD station data right now. Please try again."
	MsgSeriesMissing   = "Station series file not found for this location."
	MsgFailed          = "Something didn’t load correctly. Please try again, or try a nearby ZIP / postal code."
)

// FrostSource resolves a location to its frost record.
type FrostSource interface {
	LookupDetailed(ctx context.Context, raw string) dataset.FrostLookup
}

// StationSource resolves a location to a GDD station id.
type StationSource interface {
	LookupDetailed(ctx context.Context, raw string) dataset.StationLookup
}

// SeriesSource loads a station's cumulative series.
type SeriesSource interface {
	Load(ctx context.Context, stationID string) *domain.StationSeries
}

// CropSelector resolves requested crop ids.
type CropSelector interface {
	Select(ids []string) (crops []catalog.Crop, unknown []string)
}

// Result is the outcome of a run. Plan is nil for input errors and complete
// only for StatusOK; coverage gaps carry a partial plan with the location
// summary.
type Result struct {
	Status  Status       `json:"status"`
	Message string       `json:"message,omitempty"`
	Plan    *domain.Plan `json:"plan,omitempty"`
	Unknown []string     `json:"unknown_crops,omitempty"`
}

// Planner wires the dataset accessors and crop catalog into a single run.
type Planner struct {
	frost    FrostSource
	stations StationSource
	series   SeriesSource
	crops    CropSelector
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Planner.
func New(frost FrostSource, stations StationSource, series SeriesSource, crops CropSelector, logger *slog.Logger, metrics *observability.Metrics) *Planner {
	return &Planner{
		frost:    frost,
		stations: stations,
		series:   series,
		crops:    crops,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one request. It never panics and never returns an error:
// every failure is reported through the result status and message.
func (p *Planner) Run(ctx context.Context, req domain.PlanRequest) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("plan run failed", "request_id", req.RequestID, "panic", r)
			res = Result{Status: StatusFailed, Message: MsgFailed}
		}
		p.metrics.Plans.WithLabelValues(string(res.Status)).Inc()
	}()
	return p.run(ctx, req)
}

func (p *Planner) run(ctx context.Context, req domain.PlanRequest) Result {
	crops, unknown := p.crops.Select(req.Crops)
	if len(crops) == 0 {
		return Result{Status: StatusInputError, Message: MsgSelectCrop, Unknown: unknown}
	}

	plantingDate := strings.TrimSpace(req.PlantingDate)
	if plantingDate == "" {
		plantingDate = domain.Today()
	}
	planting := domain.ParseDateValue(plantingDate)
	if !planting.Valid() {
		return Result{Status: StatusInputError, Message: MsgInvalidPlanting, Unknown: unknown}
	}

	if strings.TrimSpace(req.Location) == "" {
		return Result{Status: StatusInputError, Message: MsgEnterLocation, Unknown: unknown}
	}

	frost, station, err := p.resolve(ctx, req.Location)
	if err != nil {
		p.logger.Error("location lookup failed", "request_id", req.RequestID, "error", err)
		return Result{Status: StatusFailed, Message: MsgFailed, Unknown: unknown}
	}

	switch frost.Reason {
	case domain.ReasonOK:
	case domain.ReasonMapLoadFailed:
		return Result{Status: StatusUnavailable, Message: MsgFailed, Unknown: unknown}
	case domain.ReasonEmpty:
		return Result{Status: StatusInputError, Message: MsgEnterLocation, Unknown: unknown}
	default:
		return Result{Status: StatusNoCoverage, Message: MsgNoMatch, Unknown: unknown}
	}

	meta := domain.PlanMeta{
		Location:        place(frost),
		FirstFrostLabel: domain.FormatMMDDLong(frost.Record.FirstFrost),
	}
	partial := func(status Status, msg string) Result {
		return Result{Status: status, Message: msg, Plan: &domain.Plan{Meta: meta, Rows: []domain.Row{}}, Unknown: unknown}
	}

	switch station.Reason {
	case domain.ReasonOK:
	case domain.ReasonMapLoadFailed:
		return partial(StatusUnavailable, MsgStationsFailed)
	default:
		return partial(StatusNoCoverage, MsgNoCoverage)
	}

	meta.StationID = station.StationID
	series := p.series.Load(ctx, station.StationID)
	if series == nil {
		p.logger.Warn("station series unavailable", "request_id", req.RequestID, "station_id", station.StationID)
		return partial(StatusNoCoverage, MsgSeriesMissing)
	}

	meta.BaseKey = "varies"
	meta.PlantingLabel = planting.Label()

	reqs := make([]domain.CropRequirement, 0, len(crops))
	for _, c := range crops {
		reqs = append(reqs, c.CropRequirement)
	}
	plan := domain.BuildPlan(meta, series, reqs, planting, frost.Record.FirstFrostDay())

	for _, est := range plan.Estimates {
		p.metrics.CropEstimates.WithLabelValues(est.Assessment.Risk.String()).Inc()
	}
	p.logger.Debug("plan built",
		"request_id", req.RequestID,
		"station_id", station.StationID,
		"crops", len(reqs),
		"late_planting", plan.LatePlanting,
	)
	return Result{Status: StatusOK, Plan: plan, Unknown: unknown}
}

// resolve runs the frost and station lookups in parallel.
func (p *Planner) resolve(ctx context.Context, location string) (dataset.FrostLookup, dataset.StationLookup, error) {
	var (
		frost   dataset.FrostLookup
		station dataset.StationLookup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverInto(&err)
		frost = p.frost.LookupDetailed(gctx, location)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err)
		station = p.stations.LookupDetailed(gctx, location)
		return nil
	})
	err := g.Wait()
	return frost, station, err
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

func place(frost dataset.FrostLookup) string {
	if where := frost.Record.Place(); where != "" {
		return where
	}
	return frost.Key
}
