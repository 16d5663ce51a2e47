package domain

import (
	"fmt"
	"strings"
)

// RowKind distinguishes crop section headers from field rows.
type RowKind string

const (
	RowCropHeader RowKind = "crop_header"
	RowField      RowKind = "row"
)

// Row is one line of a plan: either a crop header (Slug, CropName, BaseKey)
// or a field (Key, Value, Notes).
type Row struct {
	Kind     RowKind `json:"type"`
	Slug     string  `json:"slug,omitempty"`
	CropName string  `json:"crop_name,omitempty"`
	BaseKey  string  `json:"base_key,omitempty"`
	Key      string  `json:"key,omitempty"`
	Value    string  `json:"value,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// PlanMeta describes the inputs a plan was computed from.
type PlanMeta struct {
	Location        string `json:"location"`
	StationID       string `json:"station_id,omitempty"`
	BaseKey         string `json:"base_key,omitempty"`
	PlantingLabel   string `json:"planting_label,omitempty"`
	FirstFrostLabel string `json:"first_frost_label,omitempty"`
}

// Plan is a multi-crop report. Exports derive from Rows without
// re-running any estimate.
type Plan struct {
	Meta         PlanMeta    `json:"meta"`
	Rows         []Row       `json:"rows"`
	Estimates    []Estimate  `json:"estimates,omitempty"`
	Overall      *Assessment `json:"overall,omitempty"` // worst tier across crops
	LatePlanting bool        `json:"late_planting"`     // planting is past the latest safe day for some crop
}

// BuildPlan estimates every crop against the same planting and frost days
// and assembles the report rows in crop order.
func BuildPlan(meta PlanMeta, series *StationSeries, crops []CropRequirement, planting, frost DayOfYear) *Plan {
	p := &Plan{
		Meta:      meta,
		Rows:      make([]Row, 0, len(crops)*8),
		Estimates: make([]Estimate, 0, len(crops)),
	}

	for _, crop := range crops {
		est := EstimateCrop(series, crop, planting, frost)
		p.add(est, frost)
	}
	return p
}

func (p *Plan) add(est Estimate, frost DayOfYear) {
	p.Estimates = append(p.Estimates, est)

	if p.Overall == nil || est.Assessment.Risk > p.Overall.Risk {
		a := est.Assessment
		p.Overall = &a
	}
	if est.LatePlanting {
		p.LatePlanting = true
	}

	name := est.Crop.Name
	if name == "" {
		name = est.Crop.Slug
	}
	p.Rows = append(p.Rows, Row{Kind: RowCropHeader, Slug: est.Crop.Slug, CropName: name, BaseKey: est.BaseKey})

	maturityLabel := "Not reached before year-end in a typical year"
	if est.Maturity.Valid() {
		maturityLabel = est.Maturity.Label()
	}
	p.field("Estimated maturity date", maturityLabel, "")
	if est.Maturity.Valid() {
		p.field("Days from planting", fmt.Sprint(est.DaysToMaturity), "")
	}
	p.field("GDD target", fmt.Sprint(est.Required), "")
	p.field("Available GDD before typical first frost", fmt.Sprint(est.Available), "")
	if !est.Maturity.Valid() || est.Maturity >= frost {
		p.field("Estimated shortfall by frost", fmt.Sprintf("%d GDD", est.Shortfall), "")
	}

	latestLabel := "Not possible in a typical year"
	if est.LatestSafe.Valid() {
		latestLabel = est.LatestSafe.Label()
	}
	p.field("Latest typical planting date to mature before frost", latestLabel, "")
	p.field("Assessment", est.Assessment.Label, est.Assessment.Note)
}

func (p *Plan) field(key, value, notes string) {
	p.Rows = append(p.Rows, Row{Kind: RowField, Key: key, Value: value, Notes: notes})
}

// CropCount returns the number of crop sections in the plan.
func (p *Plan) CropCount() int {
	n := 0
	for _, r := range p.Rows {
		if r.Kind == RowCropHeader {
			n++
		}
	}
	return n
}

// SummaryRows returns the location, frost and planting rows shown above
// the crop sections.
func (p *Plan) SummaryRows() []Row {
	rows := []Row{
		{Kind: RowField, Key: "Location", Value: p.Meta.Location},
		{Kind: RowField, Key: "Average first fall frost", Value: p.Meta.FirstFrostLabel},
	}
	if p.Meta.PlantingLabel != "" {
		rows = append(rows, Row{Kind: RowField, Key: "Planting date", Value: p.Meta.PlantingLabel})
	}
	return rows
}

// Banner returns the overall risk headline and its note. Multi-crop plans
// are prefixed "Overall: " and point the reader at the crop sections.
func (p *Plan) Banner() (label, note string) {
	if p.Overall == nil {
		return "", ""
	}
	multi := p.CropCount() > 1
	label = p.Overall.Label
	if multi {
		label = "Overall: " + label
	}

	note = strings.TrimSpace(p.Overall.Note)
	if multi {
		if note == "" {
			note = "Review each crop section above for details."
		} else {
			note += " Review each crop section above for crop-specific details."
		}
	}
	return label, note
}

// Footnote returns the climate-normal caveat, led by a warning when the
// planting date is past the latest safe date for any crop.
func (p *Plan) Footnote() string {
	const caveat = "This is based on climate normals. A warm year can mature faster; a cool year can slip later."
	if p.LatePlanting {
		return "You’re planting after the typical “latest safe” date for at least one selected crop. " + caveat
	}
	return caveat
}
