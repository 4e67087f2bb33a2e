package audit

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
	"github.com/safarilink/groupstay-backend/pkg/enums"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS audit_entries (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL,
  action TEXT NOT NULL,
  actor_id TEXT NOT NULL,
  actor_role TEXT NOT NULL,
  reason_code TEXT,
  reason_details TEXT,
  metadata TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newEntry(t *testing.T, db *gorm.DB, bookingID uuid.UUID, action enums.AuditAction, created time.Time) *models.AuditEntry {
	t.Helper()

	entry := &models.AuditEntry{
		ID:        uuid.New(),
		BookingID: bookingID,
		Action:    action,
		ActorID:   uuid.New(),
		ActorRole: "admin",
		CreatedAt: created,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestRepositoryListByBookingIDChronological(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)
	bookingID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	newEntry(t, db, bookingID, enums.AuditActionClosed, base.Add(2*time.Minute))
	newEntry(t, db, bookingID, enums.AuditActionOpened, base)
	newEntry(t, db, bookingID, enums.AuditActionClaimSubmitted, base.Add(time.Minute))
	newEntry(t, db, uuid.New(), enums.AuditActionOpened, base)

	page, err := repo.ListByBookingID(context.Background(), bookingID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 3)
	assert.Empty(t, page.NextCursor)

	assert.Equal(t, enums.AuditActionOpened, page.Entries[0].Action)
	assert.Equal(t, enums.AuditActionClaimSubmitted, page.Entries[1].Action)
	assert.Equal(t, enums.AuditActionClosed, page.Entries[2].Action)
}

func TestRepositoryListByBookingIDCursorPaging(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)
	bookingID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	var all []*models.AuditEntry
	for i := 0; i < 5; i++ {
		all = append(all, newEntry(t, db, bookingID, enums.AuditActionClaimSubmitted, base.Add(time.Duration(i)*time.Minute)))
	}

	first, err := repo.ListByBookingID(context.Background(), bookingID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Entries, 2)
	require.NotEmpty(t, first.NextCursor)
	assert.Equal(t, all[0].ID, first.Entries[0].ID)
	assert.Equal(t, all[1].ID, first.Entries[1].ID)

	second, err := repo.ListByBookingID(context.Background(), bookingID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Entries, 2)
	require.NotEmpty(t, second.NextCursor)
	assert.Equal(t, all[2].ID, second.Entries[0].ID)
	assert.Equal(t, all[3].ID, second.Entries[1].ID)

	last, err := repo.ListByBookingID(context.Background(), bookingID, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, last.Entries, 1)
	assert.Empty(t, last.NextCursor)
	assert.Equal(t, all[4].ID, last.Entries[0].ID)
}
