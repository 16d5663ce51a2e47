package domain

import "fmt"

// Risk is a frost-risk tier. Higher values are more severe.
type Risk int

const (
	RiskComfortable Risk = iota
	RiskAtRisk
	RiskUnlikely
)

// FrostBufferDays is the margin that separates comfortable from at-risk
// maturity, standing in for year-to-year variance around the normal.
const FrostBufferDays = 14

func (r Risk) String() string {
	switch r {
	case RiskComfortable:
		return "comfortable"
	case RiskAtRisk:
		return "at_risk"
	case RiskUnlikely:
		return "unlikely"
	default:
		return fmt.Sprintf("risk(%d)", int(r))
	}
}

// MarshalText encodes the tier by name.
func (r Risk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a tier name produced by MarshalText.
func (r *Risk) UnmarshalText(text []byte) error {
	switch string(text) {
	case "comfortable":
		*r = RiskComfortable
	case "at_risk":
		*r = RiskAtRisk
	case "unlikely":
		*r = RiskUnlikely
	default:
		return fmt.Errorf("unknown risk tier %q", text)
	}
	return nil
}

// Assessment is a risk tier with its user-facing wording.
type Assessment struct {
	Risk  Risk   `json:"risk"`
	Label string `json:"label"`
	Note  string `json:"note"`
}

// ClassifyRisk compares maturity to first frost. Maturity at least
// FrostBufferDays before frost is comfortable; any earlier maturity is at
// risk; maturity on or after frost, or a missing day, is unlikely.
func ClassifyRisk(maturity, frost DayOfYear) Assessment {
	unlikely := Assessment{
		Risk:  RiskUnlikely,
		Label: "Unlikely to mature before typical frost",
		Note:  "In a typical year, first frost arrives before maturity.",
	}

	if !frost.Valid() {
		unlikely.Note = "Not enough data to compare."
		return unlikely
	}
	if !maturity.Valid() {
		return unlikely
	}

	gap := int(frost - maturity)
	switch {
	case gap >= FrostBufferDays:
		return Assessment{
			Risk:  RiskComfortable,
			Label: "Likely to mature before typical frost",
			Note:  "In a typical year, maturity lands comfortably before first frost.",
		}
	case gap > 0:
		return Assessment{
			Risk:  RiskAtRisk,
			Label: "At risk in cooler seasons",
			Note:  "Maturity is close to first frost. A cool year can push you past frost.",
		}
	default:
		return unlikely
	}
}
