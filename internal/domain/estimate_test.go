package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// linearSeries accumulates perDay degree-days every day: cum[d] = perDay*(d+1).
func linearSeries(perDay float64) Cumulative {
	c := make(Cumulative, DaysInYear)
	for d := range c {
		c[d] = perDay * float64(d+1)
	}
	return c
}

// stepSeries is 0 before day and total from day onward.
func stepSeries(day int, total float64) Cumulative {
	c := make(Cumulative, DaysInYear)
	for d := day; d < DaysInYear; d++ {
		c[d] = total
	}
	return c
}

func TestStartTotalBeforeDay(t *testing.T) {
	c := linearSeries(10)
	assert.Equal(t, 0.0, StartTotalBeforeDay(c, 0))
	assert.Equal(t, 10.0, StartTotalBeforeDay(c, 1))
	assert.Equal(t, 1200.0, StartTotalBeforeDay(c, 120))
	assert.Equal(t, 0.0, StartTotalBeforeDay(c, NoDay))
	assert.Equal(t, 0.0, StartTotalBeforeDay(c, 365))
	assert.Equal(t, 0.0, StartTotalBeforeDay(c[:200], 120), "short series is unusable")
}

func TestFindMaturityDay(t *testing.T) {
	t.Run("step series", func(t *testing.T) {
		c := stepSeries(100, 1000)
		assert.Equal(t, DayOfYear(100), FindMaturityDay(c, 50, 1000))
	})

	t.Run("linear series", func(t *testing.T) {
		c := linearSeries(10)
		assert.Equal(t, DayOfYear(219), FindMaturityDay(c, 120, 1000))
		assert.Equal(t, DayOfYear(120), FindMaturityDay(c, 120, 10))
		assert.Equal(t, DayOfYear(120), FindMaturityDay(c, 120, 0))
	})

	t.Run("not reached within the year", func(t *testing.T) {
		c := linearSeries(10)
		assert.Equal(t, NoDay, FindMaturityDay(c, 300, 1000))
	})

	t.Run("invalid inputs", func(t *testing.T) {
		c := linearSeries(10)
		assert.Equal(t, NoDay, FindMaturityDay(nil, 10, 100))
		assert.Equal(t, NoDay, FindMaturityDay(c[:364], 10, 100))
		assert.Equal(t, NoDay, FindMaturityDay(c, NoDay, 100))
		assert.Equal(t, NoDay, FindMaturityDay(c, 365, 100))
	})
}

func TestFindMaturityDay_MonotonicInRequirement(t *testing.T) {
	series := []Cumulative{linearSeries(7.5), stepSeries(180, 2200), seasonalSeries()}
	for _, c := range series {
		for _, planting := range []DayOfYear{0, 90, 150, 250} {
			prev := FindMaturityDay(c, planting, 0)
			for required := 50.0; required <= 4000; required += 50 {
				got := FindMaturityDay(c, planting, required)
				if prev == NoDay {
					assert.Equal(t, NoDay, got, "not-found must stay not-found")
					continue
				}
				if got != NoDay {
					assert.GreaterOrEqual(t, got, prev)
				}
				prev = got
			}
		}
	}
}

func TestAvailableGDDBeforeFrost(t *testing.T) {
	c := linearSeries(10)
	assert.Equal(t, 1540, AvailableGDDBeforeFrost(c, 120, 273))
	assert.Equal(t, 20, AvailableGDDBeforeFrost(c, 272, 273))
	assert.Equal(t, 0, AvailableGDDBeforeFrost(c, NoDay, 273))
	assert.Equal(t, 0, AvailableGDDBeforeFrost(c, 120, NoDay))
	assert.Equal(t, 0, AvailableGDDBeforeFrost(c[:10], 1, 5))

	t.Run("rounds half away from zero", func(t *testing.T) {
		h := linearSeries(0.5)
		// frost 4, planting 0: cum[4] = 2.5
		assert.Equal(t, 3, AvailableGDDBeforeFrost(h, 0, 4))
	})
}

func TestAvailableGDDBeforeFrost_ZeroWhenFrostNotAfterPlanting(t *testing.T) {
	for _, c := range []Cumulative{linearSeries(10), seasonalSeries(), stepSeries(30, 500)} {
		for p := DayOfYear(0); p < DaysInYear; p += 13 {
			for f := DayOfYear(0); f <= p; f += 7 {
				assert.Equal(t, 0, AvailableGDDBeforeFrost(c, p, f))
			}
		}
	}
}

func TestLatestPlantingDayBeforeFrost(t *testing.T) {
	c := linearSeries(10)
	assert.Equal(t, DayOfYear(174), LatestPlantingDayBeforeFrost(c, 273, 1000))
	assert.Equal(t, DayOfYear(272), LatestPlantingDayBeforeFrost(c, 273, 20))
	assert.Equal(t, NoDay, LatestPlantingDayBeforeFrost(c, 50, 1000), "not enough season before frost")
	assert.Equal(t, NoDay, LatestPlantingDayBeforeFrost(c, NoDay, 100))
	assert.Equal(t, NoDay, LatestPlantingDayBeforeFrost(c[:300], 273, 100))
}

func TestLatestPlantingDayBeforeFrost_NonPositiveRequirement(t *testing.T) {
	for _, c := range []Cumulative{linearSeries(10), seasonalSeries(), stepSeries(0, 0)} {
		for f := DayOfYear(0); f < DaysInYear; f += 11 {
			for _, required := range []float64{0, -1, -500} {
				assert.Equal(t, NoDay, LatestPlantingDayBeforeFrost(c, f, required))
			}
		}
	}
}

func TestEstimateCrop(t *testing.T) {
	series := &StationSeries{Bases: map[string]Cumulative{Base50: linearSeries(10)}}
	crop := CropRequirement{Slug: "tomato", Name: "Tomatoes", BaseF: 50, GDDRequired: 999.6}

	t.Run("matures comfortably", func(t *testing.T) {
		est := EstimateCrop(series, crop, 120, 273)
		assert.Equal(t, Base50, est.BaseKey)
		assert.Equal(t, 1000, est.Required)
		assert.Equal(t, DayOfYear(219), est.Maturity)
		assert.Equal(t, "August 8", est.Maturity.Label())
		assert.Equal(t, 100, est.DaysToMaturity)
		assert.Equal(t, 1540, est.Available)
		assert.Equal(t, 0, est.Shortfall)
		assert.Equal(t, DayOfYear(174), est.LatestSafe)
		assert.Equal(t, RiskComfortable, est.Assessment.Risk)
		assert.False(t, est.LatePlanting)
	})

	t.Run("planted too late", func(t *testing.T) {
		est := EstimateCrop(series, crop, 200, 273)
		assert.Equal(t, DayOfYear(299), est.Maturity)
		assert.Equal(t, 740, est.Available)
		assert.Equal(t, 260, est.Shortfall)
		assert.Equal(t, RiskUnlikely, est.Assessment.Risk)
		assert.True(t, est.LatePlanting)
	})

	t.Run("missing bucket", func(t *testing.T) {
		cool := CropRequirement{Slug: "pea", BaseF: 40, GDDRequired: 1200}
		est := EstimateCrop(series, cool, 120, 273)
		assert.Equal(t, Base40, est.BaseKey)
		assert.Equal(t, NoDay, est.Maturity)
		assert.Equal(t, 0, est.DaysToMaturity)
		assert.Equal(t, 0, est.Available)
		assert.Equal(t, 1200, est.Shortfall)
		assert.Equal(t, NoDay, est.LatestSafe)
		assert.Equal(t, RiskUnlikely, est.Assessment.Risk)
	})

	t.Run("nil series", func(t *testing.T) {
		est := EstimateCrop(nil, crop, 120, 273)
		assert.Equal(t, NoDay, est.Maturity)
		assert.Equal(t, RiskUnlikely, est.Assessment.Risk)
	})
}

// seasonalSeries accumulates nothing in winter and peaks in midsummer.
func seasonalSeries() Cumulative {
	c := make(Cumulative, DaysInYear)
	total := 0.0
	for d := range c {
		switch {
		case d < 90 || d > 300:
		case d < 195:
			total += float64(d-90) * 0.25
		default:
			total += float64(300-d) * 0.25
		}
		c[d] = total
	}
	return c
}
