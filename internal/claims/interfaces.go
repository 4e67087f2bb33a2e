package claims

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

// Repository defines persistence operations for claims.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, claim *models.Claim) (*models.Claim, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	FindLiveByBookingAndOwner(ctx context.Context, bookingID, ownerID uuid.UUID) (*models.Claim, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error)
	ListByBookingAndOwner(ctx context.Context, bookingID, ownerID uuid.UUID) ([]models.Claim, error)
	ListLiveByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error)
	UpdateClaim(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service exposes claim submission, decisions, and owner-facing listings.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Claim, error)
	Accept(ctx context.Context, input DecisionInput) error
	Reject(ctx context.Context, input RejectInput) error
	Withdraw(ctx context.Context, input WithdrawInput) error
	ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error)
	ListForOwner(ctx context.Context, bookingID, ownerID uuid.UUID) ([]models.Claim, error)
	ListAvailable(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*AvailableList, error)
}

type clock func() time.Time
