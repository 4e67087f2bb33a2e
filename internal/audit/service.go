package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/enums"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

// Service records booking lifecycle and claim transitions. Append is always
// called inside the transaction that performs the state change, so the trail
// can never diverge from actual state.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.AuditEntry, error)
	ListForBooking(ctx context.Context, bookingID uuid.UUID, params pagination.Params) (*Page, error)
}

// AppendInput captures the immutable data an audit entry requires.
type AppendInput struct {
	BookingID     uuid.UUID
	Action        enums.AuditAction
	ActorID       uuid.UUID
	ActorRole     string
	ReasonCode    *string
	ReasonDetails *string
	Metadata      map[string]string
}

type service struct {
	repo Repository
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.AuditEntry, error) {
	if input.BookingID == uuid.Nil {
		return nil, fmt.Errorf("booking id is required")
	}
	if input.ActorID == uuid.Nil {
		return nil, fmt.Errorf("actor id is required")
	}
	if !input.Action.IsValid() {
		return nil, fmt.Errorf("invalid audit action %q", input.Action)
	}

	entry := &models.AuditEntry{
		BookingID:     input.BookingID,
		Action:        input.Action,
		ActorID:       input.ActorID,
		ActorRole:     input.ActorRole,
		ReasonCode:    input.ReasonCode,
		ReasonDetails: input.ReasonDetails,
		Metadata:      input.Metadata,
	}

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ListForBooking(ctx context.Context, bookingID uuid.UUID, params pagination.Params) (*Page, error) {
	if bookingID == uuid.Nil {
		return nil, fmt.Errorf("booking id is required")
	}
	return s.repo.ListByBookingID(ctx, bookingID, params)
}
