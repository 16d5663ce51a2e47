package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FrostRecord is one location's average frost dates. Dates are "MM-DD".
type FrostRecord struct {
	Key         FlexString `json:"key"`
	Name        string     `json:"name,omitempty"`
	Region      string     `json:"region,omitempty"`
	Country     string     `json:"country,omitempty"`
	LastFrost   string     `json:"lastFrost"`
	FirstFrost  string     `json:"firstFrost"`
	SourceLabel string     `json:"sourceLabel,omitempty"`
}

// Place joins the record's name and region for display, e.g. "Edmonton, AB".
func (r FrostRecord) Place() string {
	parts := make([]string, 0, 2)
	if r.Name != "" {
		parts = append(parts, r.Name)
	}
	if r.Region != "" {
		parts = append(parts, r.Region)
	}
	return strings.Join(parts, ", ")
}

// FirstFrostDay returns the first fall frost as a day of year.
func (r FrostRecord) FirstFrostDay() DayOfYear {
	return ParseMMDD(r.FirstFrost)
}

// LastFrostDay returns the last spring frost as a day of year.
func (r FrostRecord) LastFrostDay() DayOfYear {
	return ParseMMDD(r.LastFrost)
}

// FlexString decodes a JSON string or number as a string. Published keys
// are sometimes bare numbers (e.g. 902 for a ZIP3).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		// Booleans, objects and arrays never match a key.
		*f = ""
		return nil //nolint:nilerr // tolerate malformed keys
	}
	*f = FlexString(n.String())
	return nil
}
