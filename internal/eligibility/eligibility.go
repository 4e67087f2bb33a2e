// Package eligibility decides which of an owner's properties may claim a
// given booking, and ranks candidates by location fit for presentation.
package eligibility

import (
	"fmt"
	"sort"

	"github.com/safarilink/groupstay-backend/internal/geo"
	"github.com/safarilink/groupstay-backend/pkg/db/models"
)

// Result reports the outcome of one property evaluation. Reasons holds every
// failed check, so the caller can show all defects at once.
type Result struct {
	Eligible bool
	Reasons  []string
}

// Evaluate runs every eligibility check for the property against the booking.
// It is a pure predicate: no storage access and no side effects. Checks are
// not short-circuited.
func Evaluate(booking *models.Booking, property *models.Property) Result {
	reasons := []string{}

	if !property.AllowsGroupStay {
		reasons = append(reasons, "Group stay not enabled")
	}

	if !geo.AccommodationCompatible(booking.AccommodationType, property.Type) {
		reasons = append(reasons, fmt.Sprintf("Type mismatch (needs %s)", geo.NormalizeKey(booking.AccommodationType)))
	}

	if wantRegion := geo.NormalizeText(booking.ToRegion); wantRegion != "" {
		if geo.NormalizeText(property.Region) != wantRegion {
			reasons = append(reasons, "Wrong region")
		}
	}

	if wantDistrict := normalizeOptionalDistrict(booking.ToDistrict); wantDistrict != "" {
		haveDistrict := normalizeOptionalDistrict(property.District)
		switch {
		case haveDistrict == "":
			reasons = append(reasons, "Missing district")
		case haveDistrict != wantDistrict:
			reasons = append(reasons, "Wrong district")
		}
	}

	if booking.MinHotelStar != nil {
		star, ok := hotelStar(property)
		switch {
		case !ok:
			reasons = append(reasons, fmt.Sprintf("Missing hotel rating (needs %d+)", *booking.MinHotelStar))
		case star < *booking.MinHotelStar:
			reasons = append(reasons, fmt.Sprintf("Hotel rating too low (needs %d+)", *booking.MinHotelStar))
		}
	}

	return Result{Eligible: len(reasons) == 0, Reasons: reasons}
}

// Rank orders candidate properties by location-match score, highest first.
// Region match scores 3, district adds 2, ward adds 1. The ordering is for
// presentation only and never affects eligibility. The sort is stable, so
// equally scored properties keep their incoming order.
func Rank(properties []models.Property, booking *models.Booking) []models.Property {
	type scored struct {
		property models.Property
		score    int
	}
	ranked := make([]scored, 0, len(properties))
	for _, p := range properties {
		ranked = append(ranked, scored{property: p, score: locationScore(booking, &p)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	out := make([]models.Property, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.property)
	}
	return out
}

func locationScore(booking *models.Booking, property *models.Property) int {
	score := 0
	wantRegion := geo.NormalizeText(booking.ToRegion)
	if wantRegion != "" && geo.NormalizeText(property.Region) == wantRegion {
		score += 3
	}
	wantDistrict := normalizeOptionalDistrict(booking.ToDistrict)
	if wantDistrict != "" && normalizeOptionalDistrict(property.District) == wantDistrict {
		score += 2
	}
	wantWard := normalizeOptional(booking.ToWard)
	if wantWard != "" && normalizeOptional(property.Ward) == wantWard {
		score++
	}
	return score
}

func hotelStar(property *models.Property) (int, bool) {
	if property.HotelStar == nil {
		return 0, false
	}
	return geo.HotelStarToNumber(*property.HotelStar)
}

func normalizeOptionalDistrict(v *string) string {
	if v == nil {
		return ""
	}
	return geo.NormalizeDistrictName(*v)
}

func normalizeOptional(v *string) string {
	if v == nil {
		return ""
	}
	return geo.NormalizeText(*v)
}
