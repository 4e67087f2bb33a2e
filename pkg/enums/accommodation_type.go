package enums

import "fmt"

// AccommodationType is the closed set of property categories the marketplace
// recognizes. Booking requirements arrive as free text and are resolved to one
// of these values before comparison; there is deliberately no "hostel" type.
type AccommodationType string

const (
	AccommodationHotel      AccommodationType = "hotel"
	AccommodationGuestHouse AccommodationType = "guest_house"
	AccommodationVilla      AccommodationType = "villa"
	AccommodationLodge      AccommodationType = "lodge"
	AccommodationApartment  AccommodationType = "apartment"
	AccommodationCampsite   AccommodationType = "campsite"
)

var validAccommodationTypes = []AccommodationType{
	AccommodationHotel,
	AccommodationGuestHouse,
	AccommodationVilla,
	AccommodationLodge,
	AccommodationApartment,
	AccommodationCampsite,
}

// String implements fmt.Stringer.
func (a AccommodationType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccommodationType.
func (a AccommodationType) IsValid() bool {
	for _, candidate := range validAccommodationTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccommodationType converts raw input into an AccommodationType.
func ParseAccommodationType(value string) (AccommodationType, error) {
	for _, candidate := range validAccommodationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid accommodation type %q", value)
}
