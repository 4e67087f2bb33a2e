package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/internal/audit"
	"github.com/safarilink/groupstay-backend/internal/bookings"
	"github.com/safarilink/groupstay-backend/pkg/db/models"
	dbtypes "github.com/safarilink/groupstay-backend/pkg/db/types"
	"github.com/safarilink/groupstay-backend/pkg/enums"
	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
	"github.com/safarilink/groupstay-backend/pkg/metrics"
	"github.com/safarilink/groupstay-backend/pkg/outbox"
)

// SystemActorID attributes scheduler-driven transitions in the audit trail.
var SystemActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type clock func() time.Time

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	bookings     bookings.Repository
	audit        audit.Service
	tx           txRunner
	outbox       outboxPublisher
	metrics      *metrics.AuctionMetrics
	deadlineLead time.Duration
	now          clock
}

// NewService builds the auction lifecycle service. deadlineLead is the
// minimum distance a claims deadline must keep from now; zero disables
// the floor.
func NewService(
	bookingsRepo bookings.Repository,
	auditSvc audit.Service,
	tx txRunner,
	outboxSvc outboxPublisher,
	auctionMetrics *metrics.AuctionMetrics,
	deadlineLead time.Duration,
) (Service, error) {
	if bookingsRepo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if auditSvc == nil {
		return nil, fmt.Errorf("audit service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		bookings:     bookingsRepo,
		audit:        auditSvc,
		tx:           tx,
		outbox:       outboxSvc,
		metrics:      auctionMetrics,
		deadlineLead: deadlineLead,
		now:          time.Now,
	}, nil
}

// checkDeadline enforces the forward-only rule plus the configured lead
// window on every deadline an admin sets.
func (s *service) checkDeadline(now, deadline time.Time) error {
	if !deadline.After(now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "deadline must be in the future")
	}
	if s.deadlineLead > 0 && deadline.Before(now.Add(s.deadlineLead)) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("deadline must be at least %s from now", s.deadlineLead))
	}
	return nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*models.AuctionConfig, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.Deadline.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline required")
	}

	var result *models.AuctionConfig
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.bookings.WithTx(tx)

		booking, err := repo.FindByIDForUpdate(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		if booking.IsConfirmed() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking already confirmed")
		}

		now := s.now()
		if err := s.checkDeadline(now, input.Deadline); err != nil {
			return err
		}

		if booking.HasManualHandling() {
			if !input.ReAdvertise {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					"booking has manual handling; opening requires re-advertise acknowledgment")
			}
			if err := repo.UpdateBooking(ctx, booking.ID, map[string]any{
				"assigned_owner_id":        nil,
				"recommended_property_ids": dbtypes.UUIDArray{},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear manual handling")
			}
		}

		cfg := booking.AuctionConfig
		if cfg == nil {
			cfg = &models.AuctionConfig{
				ID:                 uuid.New(),
				BookingID:          booking.ID,
				IsOpen:             true,
				OpenedAt:           &now,
				Deadline:           &input.Deadline,
				MinDiscountPercent: input.MinDiscountPercent,
				Notes:              input.Notes,
			}
			if _, err := repo.CreateAuctionConfig(ctx, cfg); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create claims window")
			}
		} else {
			updates := map[string]any{
				"is_open":              true,
				"opened_at":            now,
				"deadline":             input.Deadline,
				"min_discount_percent": input.MinDiscountPercent,
				"notes":                input.Notes,
				"re_advertise_count":   cfg.ReAdvertiseCount + 1,
			}
			if err := repo.UpdateAuctionConfig(ctx, booking.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen claims window")
			}
			cfg.IsOpen = true
			cfg.OpenedAt = &now
			cfg.Deadline = &input.Deadline
			cfg.MinDiscountPercent = input.MinDiscountPercent
			cfg.Notes = input.Notes
			cfg.ReAdvertiseCount++
		}

		action := enums.AuditActionOpened
		eventType := enums.EventAuctionOpened
		if input.ReAdvertise {
			action = enums.AuditActionReAdvertised
			eventType = enums.EventAuctionReAdvertised
		}

		metadata := map[string]string{"deadline": input.Deadline.UTC().Format(time.RFC3339)}
		if input.MinDiscountPercent != nil {
			metadata["min_discount_percent"] = input.MinDiscountPercent.String()
		}
		if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
			BookingID: booking.ID,
			Action:    action,
			ActorID:   input.ActorID,
			ActorRole: actorRoleOrAdmin(input.ActorRole),
			Metadata:  metadata,
		}); err != nil {
			return err
		}

		result = cfg
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateBooking,
			AggregateID:   booking.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.ActorID, Role: actorRoleOrAdmin(input.ActorRole)},
			Data: AuctionOpenedEvent{
				BookingID:          booking.ID,
				Deadline:           input.Deadline,
				MinDiscountPercent: input.MinDiscountPercent,
				ReAdvertise:        input.ReAdvertise,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAuctionOpened()
	return result, nil
}

func (s *service) UpdateSettings(ctx context.Context, input SettingsInput) (*models.AuctionConfig, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.Deadline == nil && input.MinDiscountPercent == nil && input.Notes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}

	var result *models.AuctionConfig
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.bookings.WithTx(tx)

		booking, err := repo.FindByIDForUpdate(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		cfg := booking.AuctionConfig
		if cfg == nil || !cfg.IsOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "claims are not open for this booking")
		}
		// An expired window already reads as closed everywhere else, so a
		// deadline extension has to go through Open's re-open path instead.
		if cfg.DeadlinePassed(s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "claims deadline has passed")
		}

		updates := map[string]any{}
		metadata := map[string]string{}
		if input.Deadline != nil {
			if err := s.checkDeadline(s.now(), *input.Deadline); err != nil {
				return err
			}
			updates["deadline"] = *input.Deadline
			metadata["deadline"] = input.Deadline.UTC().Format(time.RFC3339)
			cfg.Deadline = input.Deadline
		}
		if input.MinDiscountPercent != nil {
			// Existing claims stay valid even when the floor is raised:
			// settings changes never invalidate retroactively.
			updates["min_discount_percent"] = *input.MinDiscountPercent
			metadata["min_discount_percent"] = input.MinDiscountPercent.String()
			cfg.MinDiscountPercent = input.MinDiscountPercent
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
			cfg.Notes = input.Notes
		}

		if err := repo.UpdateAuctionConfig(ctx, booking.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update claims window")
		}

		if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
			BookingID: booking.ID,
			Action:    enums.AuditActionSettingsUpdated,
			ActorID:   input.ActorID,
			ActorRole: actorRoleOrAdmin(input.ActorRole),
			Metadata:  metadata,
		}); err != nil {
			return err
		}

		result = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Close(ctx context.Context, input CloseInput) error {
	if input.BookingID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.ReasonCode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "close reason required")
	}
	if !input.ReasonCode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown close reason %q", input.ReasonCode))
	}
	if input.ReasonCode.RequiresDetails() && (input.ReasonDetails == nil || *input.ReasonDetails == "") {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("close reason %s requires details", input.ReasonCode))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.closeLocked(ctx, tx, input)
	})
	if err != nil {
		return err
	}

	s.metrics.IncAuctionClosed(input.ReasonCode.String())
	return nil
}

func (s *service) ForceCloseExpired(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	if bookingID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	closed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookings.WithTx(tx).FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		cfg := booking.AuctionConfig
		if cfg == nil || !cfg.IsOpen {
			// already closed, repeat invocations are no-ops
			return nil
		}
		if !cfg.DeadlinePassed(s.now()) {
			return nil
		}

		if err := s.closeLocked(ctx, tx, CloseInput{
			BookingID:  bookingID,
			ActorID:    SystemActorID,
			ActorRole:  "system",
			ReasonCode: enums.CloseReasonDeadlineElapsed,
		}); err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if closed {
		s.metrics.IncAuctionClosed(enums.CloseReasonDeadlineElapsed.String())
	}
	return closed, nil
}

// closeLocked flips the window shut; the caller holds the booking lock.
// Non-terminal claims are left untouched, acceptance is its own operation.
func (s *service) closeLocked(ctx context.Context, tx *gorm.DB, input CloseInput) error {
	repo := s.bookings.WithTx(tx)

	booking, err := repo.FindByIDForUpdate(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	cfg := booking.AuctionConfig
	if cfg == nil || !cfg.IsOpen {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "claims are not open for this booking")
	}

	if err := repo.UpdateAuctionConfig(ctx, booking.ID, map[string]any{
		"is_open": false,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close claims window")
	}

	reasonCode := input.ReasonCode.String()
	if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
		BookingID:     booking.ID,
		Action:        enums.AuditActionClosed,
		ActorID:       input.ActorID,
		ActorRole:     actorRoleOrAdmin(input.ActorRole),
		ReasonCode:    &reasonCode,
		ReasonDetails: input.ReasonDetails,
	}); err != nil {
		return err
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventAuctionClosed,
		AggregateType: enums.AggregateBooking,
		AggregateID:   booking.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{ActorID: input.ActorID, Role: actorRoleOrAdmin(input.ActorRole)},
		Data: AuctionClosedEvent{
			BookingID:     booking.ID,
			ReasonCode:    reasonCode,
			ReasonDetails: input.ReasonDetails,
		},
	})
}

func actorRoleOrAdmin(role string) string {
	if role == "" {
		return "admin"
	}
	return role
}
