// Package geo canonicalizes location and accommodation strings so that
// owner-entered values and admin-entered values compare equal.
package geo

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeText lowercases and trims the value and collapses internal
// whitespace runs to single spaces.
func NormalizeText(v string) string {
	lowered := strings.ToLower(strings.TrimSpace(v))
	return strings.Join(strings.Fields(lowered), " ")
}

// NormalizeKey reduces the value to an enum-like key: lowercased, with runs of
// non-alphanumeric characters collapsed to single underscores.
func NormalizeKey(v string) string {
	normalized := NormalizeText(v)
	var b strings.Builder
	b.Grow(len(normalized))
	lastUnderscore := false
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// NormalizeDistrictName normalizes the value and strips the literal word
// "district", so "Kinondoni District" and "Kinondoni" compare equal.
func NormalizeDistrictName(v string) string {
	normalized := NormalizeText(v)
	fields := strings.Fields(normalized)
	kept := fields[:0]
	for _, f := range fields {
		if f == "district" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// accommodation compatibility beyond exact key equality. The requested type is
// the outer key. "hostel" maps onto hotel and guest_house because no distinct
// hostel property type exists; this is a closed table, not a fuzzy matcher.
var accommodationFallbacks = map[string]map[string]bool{
	"hostel": {
		"hotel":       true,
		"guest_house": true,
	},
}

// AccommodationCompatible reports whether a property of propertyType can serve
// a booking requesting requested. Spelling variants of guest house normalize
// to the same key before comparison.
func AccommodationCompatible(requested, propertyType string) bool {
	req := canonicalAccommodationKey(requested)
	prop := canonicalAccommodationKey(propertyType)
	if req == "" || prop == "" {
		return false
	}
	if req == prop {
		return true
	}
	return accommodationFallbacks[req][prop]
}

func canonicalAccommodationKey(v string) string {
	key := NormalizeKey(v)
	if key == "guesthouse" {
		return "guest_house"
	}
	return key
}

var hotelStarLabels = map[string]int{
	"basic":    1,
	"simple":   2,
	"moderate": 3,
	"high":     4,
	"luxury":   5,
}

// HotelStarToNumber maps a qualitative rating label or a literal numeral to a
// 1..5 star number. The second return is false for anything unrecognized,
// which callers treat as "unrated".
func HotelStarToNumber(label string) (int, bool) {
	key := NormalizeKey(label)
	if key == "" {
		return 0, false
	}
	if n, ok := hotelStarLabels[key]; ok {
		return n, true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 5 {
		return n, true
	}
	return 0, false
}
