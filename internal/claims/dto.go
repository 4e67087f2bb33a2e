package claims

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
)

// SubmitInput carries an owner's offer against a booking.
type SubmitInput struct {
	BookingID            uuid.UUID
	OwnerID              uuid.UUID
	PropertyID           uuid.UUID
	OfferedPricePerNight decimal.Decimal
	DiscountPercent      *decimal.Decimal
	SpecialOffers        *string
	Notes                *string
	ActorRole            string
}

// DecisionInput identifies the claim an administrator accepts.
type DecisionInput struct {
	BookingID uuid.UUID
	ClaimID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// RejectInput identifies the claim an administrator rejects.
type RejectInput struct {
	BookingID uuid.UUID
	ClaimID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
	Reason    *string
}

// WithdrawInput identifies the claim an owner withdraws.
type WithdrawInput struct {
	BookingID uuid.UUID
	ClaimID   uuid.UUID
	OwnerID   uuid.UUID
}

// PropertyCandidate pairs one of the owner's properties with its eligibility
// outcome for a booking. Ineligible candidates keep their reasons so the
// owner sees why each property cannot bid.
type PropertyCandidate struct {
	Property models.Property
	Eligible bool
	Reasons  []string
}

// AvailableBooking is one open booking an owner can claim, with that owner's
// candidate properties ranked by location fit.
type AvailableBooking struct {
	Booking    models.Booking
	Candidates []PropertyCandidate
}

// AvailableList is a cursor page of claimable bookings for one owner.
type AvailableList struct {
	Bookings   []AvailableBooking
	NextCursor string
}

// ClaimSubmittedEvent is emitted when a claim is created.
type ClaimSubmittedEvent struct {
	ClaimID              uuid.UUID       `json:"claim_id"`
	BookingID            uuid.UUID       `json:"booking_id"`
	OwnerID              uuid.UUID       `json:"owner_id"`
	PropertyID           uuid.UUID       `json:"property_id"`
	OfferedPricePerNight decimal.Decimal `json:"offered_price_per_night"`
}

// ClaimDecidedEvent is emitted when a claim reaches a terminal status.
type ClaimDecidedEvent struct {
	ClaimID         uuid.UUID   `json:"claim_id"`
	BookingID       uuid.UUID   `json:"booking_id"`
	OwnerID         uuid.UUID   `json:"owner_id"`
	PropertyID      uuid.UUID   `json:"property_id"`
	Status          string      `json:"status"`
	SupersededIDs   []uuid.UUID `json:"superseded_ids,omitempty"`
	ConfirmedPropID *uuid.UUID  `json:"confirmed_property_id,omitempty"`
}
