package domain

import (
	"strings"
	"unicode"
)

// LookupReason explains the outcome of a dataset key lookup.
type LookupReason string

const (
	ReasonEmpty         LookupReason = "empty"           // input normalized to an empty key
	ReasonMapLoadFailed LookupReason = "map_load_failed" // dataset could not be fetched or parsed
	ReasonNotFound      LookupReason = "not_found"       // dataset loaded, key absent
	ReasonOK            LookupReason = "ok"
)

// NormalizeKey turns a free-form ZIP or postal code into a lookup key.
// Input with any ASCII letter is a postal code: uppercased, whitespace
// removed, first three characters (the FSA). Anything else is a ZIP: digits
// only, first five.
func NormalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if hasASCIILetter(s) {
		up := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, strings.ToUpper(s))
		return firstRunes(up, 3)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	return firstRunes(digits, 5)
}

// CandidateKeys lists the keys to try for a normalized key, in order: the
// key itself, then the 3-digit prefix when the key is a full 5-digit ZIP.
func CandidateKeys(key string) []string {
	if key == "" {
		return nil
	}
	if isZIP5(key) {
		return []string{key, key[:3]}
	}
	return []string{key}
}

func hasASCIILetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func isZIP5(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
