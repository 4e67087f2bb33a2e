package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionConfig controls a booking's claims window. Created lazily on the
// first open call and mutated in place afterwards; never deleted.
type AuctionConfig struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID          uuid.UUID        `gorm:"column:booking_id;type:uuid;not null;uniqueIndex:idx_auction_configs_booking"`
	IsOpen             bool             `gorm:"column:is_open;not null;default:false"`
	OpenedAt           *time.Time       `gorm:"column:opened_at"`
	Deadline           *time.Time       `gorm:"column:deadline"`
	MinDiscountPercent *decimal.Decimal `gorm:"column:min_discount_percent;type:numeric"`
	Notes              *string          `gorm:"column:notes"`
	ReAdvertiseCount   int              `gorm:"column:re_advertise_count;not null;default:0"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// DeadlinePassed reports whether the claims window expired at the given time.
func (c *AuctionConfig) DeadlinePassed(at time.Time) bool {
	return c.Deadline != nil && !c.Deadline.After(at)
}
