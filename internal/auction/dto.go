package auction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safarilink/groupstay-backend/pkg/enums"
)

// OpenInput opens (or re-opens) the claims window on a booking.
type OpenInput struct {
	BookingID          uuid.UUID
	ActorID            uuid.UUID
	ActorRole          string
	Deadline           time.Time
	MinDiscountPercent *decimal.Decimal
	Notes              *string
	// ReAdvertise acknowledges that any manual assignment on the booking
	// will be cleared before the window opens.
	ReAdvertise bool
}

// SettingsInput mutates a live window without toggling it.
type SettingsInput struct {
	BookingID          uuid.UUID
	ActorID            uuid.UUID
	ActorRole          string
	Deadline           *time.Time
	MinDiscountPercent *decimal.Decimal
	Notes              *string
}

// CloseInput closes a live window with a mandatory reason.
type CloseInput struct {
	BookingID     uuid.UUID
	ActorID       uuid.UUID
	ActorRole     string
	ReasonCode    enums.CloseReason
	ReasonDetails *string
}

// AuctionOpenedEvent is the outbox payload for window opens.
type AuctionOpenedEvent struct {
	BookingID          uuid.UUID        `json:"booking_id"`
	Deadline           time.Time        `json:"deadline"`
	MinDiscountPercent *decimal.Decimal `json:"min_discount_percent,omitempty"`
	ReAdvertise        bool             `json:"re_advertise"`
}

// AuctionClosedEvent is the outbox payload for window closes.
type AuctionClosedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	ReasonCode    string    `json:"reason_code"`
	ReasonDetails *string   `json:"reason_details,omitempty"`
}
