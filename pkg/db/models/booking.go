package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/safarilink/groupstay-backend/pkg/db/types"
	"github.com/safarilink/groupstay-backend/pkg/enums"
)

// Booking represents a group-stay request placed by a travel group and
// administered by staff. The auction config hangs off it one-to-one.
type Booking struct {
	ID                     uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupName              string              `gorm:"column:group_name;not null"`
	ToRegion               string              `gorm:"column:to_region;not null"`
	ToDistrict             *string             `gorm:"column:to_district"`
	ToWard                 *string             `gorm:"column:to_ward"`
	AccommodationType      string              `gorm:"column:accommodation_type;not null"`
	Headcount              int                 `gorm:"column:headcount;not null"`
	RoomsNeeded            int                 `gorm:"column:rooms_needed;not null"`
	MinHotelStar           *int                `gorm:"column:min_hotel_star"`
	CheckIn                time.Time           `gorm:"column:check_in;not null"`
	CheckOut               time.Time           `gorm:"column:check_out;not null"`
	Status                 enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ConfirmedPropertyID    *uuid.UUID          `gorm:"column:confirmed_property_id;type:uuid"`
	AssignedOwnerID        *uuid.UUID          `gorm:"column:assigned_owner_id;type:uuid"`
	RecommendedPropertyIDs dbtypes.UUIDArray   `gorm:"column:recommended_property_ids;type:uuid[]"`
	AuctionConfig          *AuctionConfig      `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsConfirmed reports whether a property has been locked in for the booking.
func (b *Booking) IsConfirmed() bool {
	return b.ConfirmedPropertyID != nil
}

// HasManualHandling reports whether staff have already steered this booking
// outside the auction flow (direct owner assignment or a curated shortlist).
func (b *Booking) HasManualHandling() bool {
	return b.AssignedOwnerID != nil || len(b.RecommendedPropertyIDs) > 0
}
