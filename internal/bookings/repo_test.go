package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  group_name TEXT NOT NULL,
  to_region TEXT NOT NULL,
  to_district TEXT,
  to_ward TEXT,
  accommodation_type TEXT NOT NULL,
  headcount INTEGER NOT NULL,
  rooms_needed INTEGER NOT NULL,
  min_hotel_star INTEGER,
  check_in DATETIME NOT NULL,
  check_out DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  confirmed_property_id TEXT,
  assigned_owner_id TEXT,
  recommended_property_ids TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	configs := `
CREATE TABLE IF NOT EXISTS auction_configs (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL UNIQUE,
  is_open INTEGER NOT NULL DEFAULT 0,
  opened_at DATETIME,
  deadline DATETIME,
  min_discount_percent TEXT,
  notes TEXT,
  re_advertise_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	properties := `
CREATE TABLE IF NOT EXISTS properties (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  region TEXT NOT NULL,
  district TEXT,
  ward TEXT,
  type TEXT NOT NULL,
  hotel_star TEXT,
  capacity INTEGER NOT NULL DEFAULT 0,
  allows_group_stay INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(bookings).Error)
	require.NoError(t, db.Exec(configs).Error)
	require.NoError(t, db.Exec(properties).Error)
	return db
}

func newBooking(t *testing.T, db *gorm.DB, region string, created time.Time) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ID:                uuid.New(),
		GroupName:         "Safari Club",
		ToRegion:          region,
		AccommodationType: "hotel",
		Headcount:         20,
		RoomsNeeded:       8,
		CheckIn:           created.AddDate(0, 1, 0),
		CheckOut:          created.AddDate(0, 1, 4),
		Status:            "pending",
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func openConfig(t *testing.T, db *gorm.DB, bookingID uuid.UUID, deadline time.Time) *models.AuctionConfig {
	t.Helper()

	opened := deadline.Add(-24 * time.Hour)
	cfg := &models.AuctionConfig{
		ID:        uuid.New(),
		BookingID: bookingID,
		IsOpen:    true,
		OpenedAt:  &opened,
		Deadline:  &deadline,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

func TestRepositoryFindByIDForUpdateLoadsConfig(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	booking := newBooking(t, db, "Arusha", time.Now().UTC())
	openConfig(t, db, booking.ID, time.Now().UTC().Add(48*time.Hour))

	got, err := repo.FindByIDForUpdate(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AuctionConfig)
	assert.True(t, got.AuctionConfig.IsOpen)
	assert.Equal(t, booking.ID, got.AuctionConfig.BookingID)
}

func TestRepositoryFindByIDForUpdateWithoutConfig(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	booking := newBooking(t, db, "Dodoma", time.Now().UTC())

	got, err := repo.FindByIDForUpdate(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AuctionConfig)
}

func TestRepositoryListOpen_pagination(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	older := newBooking(t, db, "Mwanza", now.Add(-time.Hour))
	newer := newBooking(t, db, "Arusha", now)
	closed := newBooking(t, db, "Tanga", now.Add(-2*time.Hour))

	openConfig(t, db, older.ID, now.Add(48*time.Hour))
	openConfig(t, db, newer.ID, now.Add(24*time.Hour))
	cfg := openConfig(t, db, closed.ID, now.Add(24*time.Hour))
	require.NoError(t, db.Model(&models.AuctionConfig{}).Where("id = ?", cfg.ID).Update("is_open", false).Error)

	list, err := repo.ListOpen(context.Background(), pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, newer.ID, list.Bookings[0].ID)
	assert.NotEmpty(t, list.NextCursor)

	second, err := repo.ListOpen(context.Background(), pagination.Params{Limit: 1, Cursor: list.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Bookings, 1)
	assert.Equal(t, older.ID, second.Bookings[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryFindExpiredOpen(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	expired := newBooking(t, db, "Arusha", now.Add(-time.Hour))
	live := newBooking(t, db, "Dodoma", now)

	openConfig(t, db, expired.ID, now.Add(-time.Minute))
	openConfig(t, db, live.ID, now.Add(24*time.Hour))

	rows, err := repo.FindExpiredOpen(context.Background(), now, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, expired.ID, rows[0].ID)
}

func TestPropertyRepositoryListByOwner(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewPropertyRepository(db)

	ownerID := uuid.New()
	now := time.Now().UTC()
	first := &models.Property{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Name:            "Kilima Lodge",
		Region:          "Arusha",
		Type:            "hotel",
		AllowsGroupStay: true,
		CreatedAt:       now.Add(-time.Hour),
		UpdatedAt:       now.Add(-time.Hour),
	}
	second := &models.Property{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Mto Villa",
		Region:    "Arusha",
		Type:      "villa",
		CreatedAt: now,
		UpdatedAt: now,
	}
	other := &models.Property{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Name:      "Elsewhere",
		Region:    "Tanga",
		Type:      "lodge",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Create(other).Error)

	rows, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kilima Lodge", rows[0].Name)
	assert.Equal(t, "Mto Villa", rows[1].Name)
}
