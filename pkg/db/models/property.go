package models

import (
	"time"

	"github.com/google/uuid"
)

// Property represents an owner-listed accommodation. Region, district and type
// are stored as the owner entered them; comparisons normalize at read time.
type Property struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID         uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index:idx_properties_owner"`
	Name            string    `gorm:"column:name;not null"`
	Region          string    `gorm:"column:region;not null"`
	District        *string   `gorm:"column:district"`
	Ward            *string   `gorm:"column:ward"`
	Type            string    `gorm:"column:type;not null"`
	HotelStar       *string   `gorm:"column:hotel_star"`
	Capacity        int       `gorm:"column:capacity;not null;default:0"`
	AllowsGroupStay bool      `gorm:"column:allows_group_stay;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
