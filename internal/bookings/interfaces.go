package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

// Repository defines persistence operations for bookings and their auction configs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	// FindByIDForUpdate locks the booking row for the enclosing transaction.
	// Every mutating auction/claim operation goes through this lock, which is
	// what serializes concurrent work per booking.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateAuctionConfig(ctx context.Context, cfg *models.AuctionConfig) (*models.AuctionConfig, error)
	UpdateAuctionConfig(ctx context.Context, bookingID uuid.UUID, updates map[string]any) error
	ListOpen(ctx context.Context, params pagination.Params) (*OpenBookingList, error)
	FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)
}

// PropertyRepository defines read operations over owner properties.
type PropertyRepository interface {
	WithTx(tx *gorm.DB) PropertyRepository
	CreateProperty(ctx context.Context, property *models.Property) (*models.Property, error)
	FindPropertyByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error)
}

// OpenBookingList is a cursor page of bookings whose claims window is open.
type OpenBookingList struct {
	Bookings   []models.Booking
	NextCursor string
}
