package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safarilink/groupstay-backend/pkg/enums"
)

// Claim is an owner's priced offer against a booking and one of their
// properties. At most one live claim per (booking, owner) pair is allowed,
// enforced by idx_claims_booking_owner_live.
type Claim struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID            uuid.UUID         `gorm:"column:booking_id;type:uuid;not null;index:idx_claims_booking"`
	OwnerID              uuid.UUID         `gorm:"column:owner_id;type:uuid;not null"`
	PropertyID           uuid.UUID         `gorm:"column:property_id;type:uuid;not null"`
	OfferedPricePerNight decimal.Decimal   `gorm:"column:offered_price_per_night;type:numeric;not null"`
	DiscountPercent      *decimal.Decimal  `gorm:"column:discount_percent;type:numeric"`
	SpecialOffers        *string           `gorm:"column:special_offers"`
	Notes                *string           `gorm:"column:notes"`
	Status               enums.ClaimStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	DecidedAt            *time.Time        `gorm:"column:decided_at"`
	DecidedBy            *uuid.UUID        `gorm:"column:decided_by;type:uuid"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
