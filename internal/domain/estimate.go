package domain

import "math"

// CropRequirement is the thermal requirement of one crop.
type CropRequirement struct {
	Slug        string  `json:"slug" yaml:"slug"`
	Name        string  `json:"name" yaml:"name"`
	BaseF       float64 `json:"base_f" yaml:"base_f"`
	GDDRequired float64 `json:"gdd_required" yaml:"gdd_required"`
	Category    string  `json:"category,omitempty" yaml:"category"`
}

// Estimate is the maturity forecast for one crop at one planting day.
type Estimate struct {
	Crop           CropRequirement `json:"crop"`
	BaseKey        string          `json:"base_key"`
	Required       int             `json:"gdd_required"`
	Maturity       DayOfYear       `json:"maturity_doy"`
	DaysToMaturity int             `json:"days_to_maturity,omitempty"` // 0 when maturity is not reached
	Available      int             `json:"available_gdd"`
	Shortfall      int             `json:"shortfall_gdd"`
	LatestSafe     DayOfYear       `json:"latest_safe_doy"`
	Assessment     Assessment      `json:"assessment"`
	LatePlanting   bool            `json:"late_planting"`
}

// StartTotalBeforeDay returns the total accumulated strictly before the
// planting day: the baseline every maturity computation subtracts.
func StartTotalBeforeDay(cum Cumulative, planting DayOfYear) float64 {
	if !cum.Usable() || !planting.Valid() || planting == 0 {
		return 0
	}
	return cum[planting-1]
}

// FindMaturityDay returns the first day on or after planting whose
// cumulative total reaches the baseline plus required. NoDay means the crop
// does not mature before the end of the year.
func FindMaturityDay(cum Cumulative, planting DayOfYear, required float64) DayOfYear {
	if !cum.Usable() || !planting.Valid() {
		return NoDay
	}
	target := StartTotalBeforeDay(cum, planting) + required
	for d := planting; d < DaysInYear; d++ {
		if cum[d] >= target {
			return d
		}
	}
	return NoDay
}

// AvailableGDDBeforeFrost returns the accumulation from planting through
// the frost day. Zero unless frost falls strictly after planting.
func AvailableGDDBeforeFrost(cum Cumulative, planting, frost DayOfYear) int {
	if !cum.Usable() || !planting.Valid() || !frost.Valid() {
		return 0
	}
	if frost <= planting {
		return 0
	}
	return roundNonNegative(cum[frost] - StartTotalBeforeDay(cum, planting))
}

// LatestPlantingDayBeforeFrost scans backward from the day before frost
// for the latest planting day whose available accumulation still meets
// required. A requirement of zero or less is invalid and yields NoDay.
func LatestPlantingDayBeforeFrost(cum Cumulative, frost DayOfYear, required float64) DayOfYear {
	if !cum.Usable() || !frost.Valid() {
		return NoDay
	}
	if !(required > 0) {
		return NoDay
	}
	for p := frost - 1; p >= 0; p-- {
		if float64(AvailableGDDBeforeFrost(cum, p, frost)) >= required {
			return p
		}
	}
	return NoDay
}

// EstimateCrop runs the full estimate for one crop against a station.
func EstimateCrop(series *StationSeries, crop CropRequirement, planting, frost DayOfYear) Estimate {
	baseKey := PickBaseKey(crop.BaseF)
	cum := series.Base(baseKey)
	required := int(math.Round(finiteOrZero(crop.GDDRequired)))

	maturity := FindMaturityDay(cum, planting, float64(required))
	available := AvailableGDDBeforeFrost(cum, planting, frost)
	latest := LatestPlantingDayBeforeFrost(cum, frost, float64(required))

	est := Estimate{
		Crop:       crop,
		BaseKey:    baseKey,
		Required:   required,
		Maturity:   maturity,
		Available:  available,
		Shortfall:  roundNonNegative(float64(required - available)),
		LatestSafe: latest,
		Assessment: ClassifyRisk(maturity, frost),
	}
	if maturity.Valid() {
		est.DaysToMaturity = int(maturity-planting) + 1
	}
	est.LatePlanting = latest.Valid() && planting > latest
	return est
}

// roundNonNegative rounds half away from zero, then clamps at zero.
func roundNonNegative(x float64) int {
	return int(math.Max(0, math.Round(x)))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
