package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/safarilink/groupstay-backend/pkg/enums"
)

// AuditEntry records an immutable lifecycle or claim transition on a booking.
// Rows are written inside the same transaction as the state change they
// describe and are never updated or deleted.
type AuditEntry struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID     uuid.UUID         `gorm:"column:booking_id;type:uuid;not null;index:idx_audit_entries_booking"`
	Action        enums.AuditAction `gorm:"column:action;type:text;not null"`
	ActorID       uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	ActorRole     string            `gorm:"column:actor_role;not null"`
	ReasonCode    *string           `gorm:"column:reason_code"`
	ReasonDetails *string           `gorm:"column:reason_details"`
	Metadata      map[string]string `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}
