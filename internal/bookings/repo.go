package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("AuctionConfig").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its writes serialize on the database file.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var booking models.Booking
	if err := q.Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}

	// Load the config in a follow-up query so the lock clause stays on the
	// booking row only.
	var cfg models.AuctionConfig
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		First(&cfg).Error
	switch {
	case err == nil:
		booking.AuctionConfig = &cfg
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no config yet; auction never opened
	default:
		return nil, err
	}

	return &booking, nil
}

func (r *repository) UpdateBooking(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateAuctionConfig(ctx context.Context, cfg *models.AuctionConfig) (*models.AuctionConfig, error) {
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *repository) UpdateAuctionConfig(ctx context.Context, bookingID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.AuctionConfig{}).
		Where("booking_id = ?", bookingID).
		Updates(updates).Error
}

func (r *repository) ListOpen(ctx context.Context, params pagination.Params) (*OpenBookingList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN auction_configs ac ON ac.booking_id = bookings.id").
		Where("ac.is_open = ?", true).
		Preload("AuctionConfig").
		Order("bookings.created_at DESC").
		Order("bookings.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		q = q.Where(
			"(bookings.created_at < ?) OR (bookings.created_at = ? AND bookings.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Booking
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &OpenBookingList{Bookings: rows}
	if len(rows) > limit {
		list.Bookings = rows[:limit]
		last := list.Bookings[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	var rows []models.Booking
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN auction_configs ac ON ac.booking_id = bookings.id").
		Where("ac.is_open = ? AND ac.deadline IS NOT NULL AND ac.deadline <= ?", true, cutoff).
		Order("ac.deadline ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository builds a property repository bound to the provided DB.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) WithTx(tx *gorm.DB) PropertyRepository {
	if tx == nil {
		return r
	}
	return &propertyRepository{db: tx}
}

func (r *propertyRepository) CreateProperty(ctx context.Context, property *models.Property) (*models.Property, error) {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func (r *propertyRepository) FindPropertyByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	var rows []models.Property
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
