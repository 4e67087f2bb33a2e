package auction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
)

// Service drives the claims-window lifecycle for a booking.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*models.AuctionConfig, error)
	UpdateSettings(ctx context.Context, input SettingsInput) (*models.AuctionConfig, error)
	Close(ctx context.Context, input CloseInput) error
	// ForceCloseExpired closes the window when its deadline has passed.
	// It reports whether a close actually happened; calling it on a
	// booking that is already closed is a no-op.
	ForceCloseExpired(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

// State is the lifecycle position of a booking's claims window.
type State string

const (
	StateNotOpened State = "not_opened"
	StateOpen      State = "open"
	StateClosed    State = "closed"
	StateConfirmed State = "confirmed"
)

// StateFor derives the lifecycle state from the booking row alone. A
// confirmed booking is terminal regardless of what the config says, and an
// open window whose deadline already elapsed reads as closed even before the
// sweep persists the close.
func StateFor(booking *models.Booking, at time.Time) State {
	if booking == nil {
		return StateNotOpened
	}
	if booking.IsConfirmed() {
		return StateConfirmed
	}
	cfg := booking.AuctionConfig
	switch {
	case cfg == nil:
		return StateNotOpened
	case cfg.IsOpen && !cfg.DeadlinePassed(at):
		return StateOpen
	default:
		return StateClosed
	}
}
