// Package domain models growing-degree-day (GDD) maturity planning.
//
// # Data Sources
//
// Three pre-published static JSON datasets feed the planner. They are
// produced offline from climate normals (multi-year averages) and are
// treated as immutable for the life of the process:
//
//	frost-dates.json            array of frost records keyed by ZIP, ZIP3 or FSA
//	gdd-stations.json           object mapping the same keys to a station id
//	gdd-stations/<id>.json      {"bases": {"40": [...], "45": [...], "50": [...]}}
//
// # Location Keys
//
// US locations are keyed by ZIP code, with 3-digit ZIP prefixes stored for
// broader coverage. Canadian locations are keyed by Forward Sortation Area
// (FSA), the first three characters of a postal code. See [NormalizeKey].
//
//	"90210"    → "90210", falls back to "902"
//	"t5a 0a1"  → "T5A"
//
// # Calendar
//
// Days are zero-indexed offsets into a fixed 365-day calendar with no leap
// day, because the series are climate normals and not a specific year.
// January 1 is day 0, December 31 is day 364. [NoDay] marks "not reached",
// "not possible" and "unknown".
//
// Frost dates are year-independent "MM-DD" strings. Planting dates arrive
// as "YYYY-MM-DD"; the year is ignored.
//
// # Degree-Day Series
//
// Each station carries one cumulative array per base temperature (40, 45,
// and 50°F). Entry i is the total accumulated through day i, so the array is
// non-decreasing. Accumulation toward maturity counts from the planting day:
// every computation subtracts the total through the day before planting.
//
// A crop's base temperature selects a bucket by rounding down to the
// nearest available base:
//
//	base ≤ 40 → "40" | base ≤ 45 → "45" | otherwise → "50"
//
// # Risk Classification
//
// Maturity is compared to the average first fall frost with a 14-day buffer
// for year-to-year variance:
//
//	frost − maturity ≥ 14     comfortable (likely to mature before frost)
//	0 < frost − maturity < 14 at risk in cooler seasons
//	otherwise                 unlikely to mature before frost
//
// # Rounding
//
// Displayed degree-day quantities are rounded half away from zero and then
// clamped at zero, in that order, everywhere.
package domain
