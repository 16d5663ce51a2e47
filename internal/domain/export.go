package domain

import (
	"fmt"
	"strings"
)

// Export file names offered for download.
const (
	TextFilename = "growbydate-gdd-results.txt"
	CSVFilename  = "growbydate-gdd-results.csv"
)

// Text renders the plan as a plain-text document.
func (p *Plan) Text() string {
	lines := []string{"GrowByDate — GDD maturity estimate (typical year)", ""}

	m := p.Meta
	if m.Location != "" {
		lines = append(lines, "Location: "+m.Location)
	}
	if m.StationID != "" {
		lines = append(lines, fmt.Sprintf("GDD station: %s (Base %s°F)", m.StationID, m.BaseKey))
	}
	if m.PlantingLabel != "" {
		lines = append(lines, "Planting date: "+m.PlantingLabel)
	}
	if m.FirstFrostLabel != "" {
		lines = append(lines, "Average first fall frost: "+m.FirstFrostLabel)
	}
	lines = append(lines, "")

	for _, r := range p.Rows {
		switch r.Kind {
		case RowCropHeader:
			lines = append(lines, fmt.Sprintf("%s (%s)", r.CropName, r.Slug))
		case RowField:
			line := fmt.Sprintf("- %s: %s", r.Key, r.Value)
			if r.Notes != "" {
				line += " (" + r.Notes + ")"
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// CSV renders the plan as a Crop,Field,Value,Notes table.
func (p *Plan) CSV() string {
	lines := []string{csvLine("Crop", "Field", "Value", "Notes")}
	crop := ""
	for _, r := range p.Rows {
		switch r.Kind {
		case RowCropHeader:
			crop = r.CropName
		case RowField:
			lines = append(lines, csvLine(crop, r.Key, r.Value, r.Notes))
		}
	}
	return strings.Join(lines, "\n")
}

func csvLine(fields ...string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = escapeCSV(f)
	}
	return strings.Join(out, ",")
}

// escapeCSV quotes a value containing a comma, quote, CR or LF, doubling
// any inner quotes.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
