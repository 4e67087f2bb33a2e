package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/internal/audit"
	"github.com/safarilink/groupstay-backend/internal/bookings"
	"github.com/safarilink/groupstay-backend/internal/eligibility"
	dbpkg "github.com/safarilink/groupstay-backend/pkg/db"
	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/enums"
	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
	"github.com/safarilink/groupstay-backend/pkg/metrics"
	"github.com/safarilink/groupstay-backend/pkg/outbox"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo     Repository
	bookings bookings.Repository
	props    bookings.PropertyRepository
	audit    audit.Service
	tx       txRunner
	outbox   outboxPublisher
	metrics  *metrics.AuctionMetrics
	now      clock
}

// NewService builds the claims service with the required dependencies.
func NewService(
	repo Repository,
	bookingsRepo bookings.Repository,
	propsRepo bookings.PropertyRepository,
	auditSvc audit.Service,
	tx txRunner,
	outboxSvc outboxPublisher,
	auctionMetrics *metrics.AuctionMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("claims repository required")
	}
	if bookingsRepo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if propsRepo == nil {
		return nil, fmt.Errorf("property repository required")
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
		repo:     repo,
		bookings: bookingsRepo,
		props:    propsRepo,
		audit:    auditSvc,
		tx:       tx,
		outbox:   outboxSvc,
		metrics:  auctionMetrics,
		now:      time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Claim, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	if input.PropertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	if !input.OfferedPricePerNight.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offered price must be positive")
	}
	if input.DiscountPercent != nil {
		if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
		}
	}

	var created *models.Claim
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// The booking row lock is the serialization point: every check below
		// happens under it, so two racing submissions cannot both pass.
		booking, err := s.bookings.WithTx(tx).FindByIDForUpdate(ctx, input.BookingID)
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
		if cfg.DeadlinePassed(s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "claims deadline has passed")
		}

		property, err := s.props.WithTx(tx).FindPropertyByID(ctx, input.PropertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		if property.OwnerID != input.OwnerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "property does not belong to owner")
		}

		if result := eligibility.Evaluate(booking, property); !result.Eligible {
			return pkgerrors.New(pkgerrors.CodeConflict, "property is not eligible for this booking").
				WithDetails(map[string]any{"reasons": result.Reasons})
		}

		if cfg.MinDiscountPercent != nil {
			if input.DiscountPercent == nil || input.DiscountPercent.LessThan(*cfg.MinDiscountPercent) {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("discount of at least %s%% required", cfg.MinDiscountPercent.String()))
			}
		}

		if _, err := repo.FindLiveByBookingAndOwner(ctx, input.BookingID, input.OwnerID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "owner already holds a live claim on this booking")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing claims")
		}

		claim := &models.Claim{
			ID:                   uuid.New(),
			BookingID:            input.BookingID,
			OwnerID:              input.OwnerID,
			PropertyID:           input.PropertyID,
			OfferedPricePerNight: input.OfferedPricePerNight,
			DiscountPercent:      input.DiscountPercent,
			SpecialOffers:        input.SpecialOffers,
			Notes:                input.Notes,
			Status:               enums.ClaimStatusPending,
		}
		if _, err := repo.Create(ctx, claim); err != nil {
			if dbpkg.IsUniqueViolation(err, "idx_claims_booking_owner_live") {
				return pkgerrors.New(pkgerrors.CodeConflict, "owner already holds a live claim on this booking")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create claim")
		}

		if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
			BookingID: input.BookingID,
			Action:    enums.AuditActionClaimSubmitted,
			ActorID:   input.OwnerID,
			ActorRole: actorRoleOrOwner(input.ActorRole),
			Metadata: map[string]string{
				"claim_id":    claim.ID.String(),
				"property_id": input.PropertyID.String(),
				"price":       input.OfferedPricePerNight.String(),
			},
		}); err != nil {
			return err
		}

		created = claim
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventClaimSubmitted,
			AggregateType: enums.AggregateClaim,
			AggregateID:   claim.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.OwnerID, Role: actorRoleOrOwner(input.ActorRole)},
			Data: ClaimSubmittedEvent{
				ClaimID:              claim.ID,
				BookingID:            claim.BookingID,
				OwnerID:              claim.OwnerID,
				PropertyID:           claim.PropertyID,
				OfferedPricePerNight: claim.OfferedPricePerNight,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			s.metrics.IncClaimSubmitted("conflict")
		}
		return nil, err
	}

	s.metrics.IncClaimSubmitted("created")
	return created, nil
}

func (s *service) Accept(ctx context.Context, input DecisionInput) error {
	if input.BookingID == uuid.Nil || input.ClaimID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking id and claim id required")
	}
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		bookingsRepo := s.bookings.WithTx(tx)

		booking, err := bookingsRepo.FindByIDForUpdate(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		claim, err := repo.FindByID(ctx, input.ClaimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load claim")
		}
		if claim.BookingID != input.BookingID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found for booking")
		}
		if claim.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "claim already decided")
		}

		now := s.now()

		// Read the full live sibling set under the lock, then write it, so a
		// concurrent reject cannot slip between.
		siblings, err := repo.ListLiveByBooking(ctx, input.BookingID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load live claims")
		}

		supersededIDs := make([]uuid.UUID, 0, len(siblings))
		for _, sibling := range siblings {
			if sibling.ID == claim.ID {
				continue
			}
			if err := repo.UpdateClaim(ctx, sibling.ID, map[string]any{
				"status":     enums.ClaimStatusSuperseded,
				"decided_at": now,
				"decided_by": input.ActorID,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "supersede claim")
			}
			supersededIDs = append(supersededIDs, sibling.ID)
		}

		if err := repo.UpdateClaim(ctx, claim.ID, map[string]any{
			"status":     enums.ClaimStatusAccepted,
			"decided_at": now,
			"decided_by": input.ActorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept claim")
		}

		if err := bookingsRepo.UpdateBooking(ctx, booking.ID, map[string]any{
			"confirmed_property_id": claim.PropertyID,
			"status":                enums.BookingStatusConfirmed,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm booking")
		}
		if booking.AuctionConfig != nil {
			if err := bookingsRepo.UpdateAuctionConfig(ctx, booking.ID, map[string]any{
				"is_open": false,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close claims window")
			}
		}

		if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
			BookingID: input.BookingID,
			Action:    enums.AuditActionClaimAccepted,
			ActorID:   input.ActorID,
			ActorRole: actorRoleOrAdmin(input.ActorRole),
			Metadata: map[string]string{
				"claim_id":    claim.ID.String(),
				"owner_id":    claim.OwnerID.String(),
				"property_id": claim.PropertyID.String(),
			},
		}); err != nil {
			return err
		}
		for _, id := range supersededIDs {
			if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
				BookingID: input.BookingID,
				Action:    enums.AuditActionClaimSuperseded,
				ActorID:   input.ActorID,
				ActorRole: actorRoleOrAdmin(input.ActorRole),
				Metadata: map[string]string{
					"claim_id":          id.String(),
					"accepted_claim_id": claim.ID.String(),
				},
			}); err != nil {
				return err
			}
		}

		propertyID := claim.PropertyID
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventClaimAccepted,
			AggregateType: enums.AggregateClaim,
			AggregateID:   claim.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.ActorID, Role: actorRoleOrAdmin(input.ActorRole)},
			Data: ClaimDecidedEvent{
				ClaimID:         claim.ID,
				BookingID:       claim.BookingID,
				OwnerID:         claim.OwnerID,
				PropertyID:      claim.PropertyID,
				Status:          enums.ClaimStatusAccepted.String(),
				SupersededIDs:   supersededIDs,
				ConfirmedPropID: &propertyID,
			},
		})
	})
	if err != nil {
		return err
	}

	s.metrics.IncClaimDecided(enums.ClaimStatusAccepted.String())
	return nil
}

func (s *service) Reject(ctx context.Context, input RejectInput) error {
	if input.BookingID == uuid.Nil || input.ClaimID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking id and claim id required")
	}
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	rejected := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.bookings.WithTx(tx).FindByIDForUpdate(ctx, input.BookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		claim, err := repo.FindByID(ctx, input.ClaimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load claim")
		}
		if claim.BookingID != input.BookingID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found for booking")
		}
		if claim.Status.IsTerminal() {
			// A claim decided concurrently (accepted, superseded) stays as it
			// is; rejecting it is a silent no-op, not an error.
			return nil
		}

		if err := repo.UpdateClaim(ctx, claim.ID, map[string]any{
			"status":     enums.ClaimStatusRejected,
			"decided_at": s.now(),
			"decided_by": input.ActorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject claim")
		}

		metadata := map[string]string{
			"claim_id": claim.ID.String(),
			"owner_id": claim.OwnerID.String(),
		}
		if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
			BookingID:     input.BookingID,
			Action:        enums.AuditActionClaimRejected,
			ActorID:       input.ActorID,
			ActorRole:     actorRoleOrAdmin(input.ActorRole),
			ReasonDetails: input.Reason,
			Metadata:      metadata,
		}); err != nil {
			return err
		}

		rejected = true
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventClaimRejected,
			AggregateType: enums.AggregateClaim,
			AggregateID:   claim.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.ActorID, Role: actorRoleOrAdmin(input.ActorRole)},
			Data: ClaimDecidedEvent{
				ClaimID:    claim.ID,
				BookingID:  claim.BookingID,
				OwnerID:    claim.OwnerID,
				PropertyID: claim.PropertyID,
				Status:     enums.ClaimStatusRejected.String(),
			},
		})
	})
	if err != nil {
		return err
	}

	if rejected {
		s.metrics.IncClaimDecided(enums.ClaimStatusRejected.String())
	}
	return nil
}

func (s *service) Withdraw(ctx context.Context, input WithdrawInput) error {
	if input.BookingID == uuid.Nil || input.ClaimID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking id and claim id required")
	}
	if input.OwnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.bookings.WithTx(tx).FindByIDForUpdate(ctx, input.BookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		claim, err := repo.FindByID(ctx, input.ClaimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load claim")
		}
		if claim.BookingID != input.BookingID || claim.OwnerID != input.OwnerID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "claim not found for owner")
		}
		if claim.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "claim already decided")
		}

		if err := repo.UpdateClaim(ctx, claim.ID, map[string]any{
			"status":     enums.ClaimStatusWithdrawn,
			"decided_at": s.now(),
			"decided_by": input.OwnerID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "withdraw claim")
		}

		if _, err := s.audit.Append(ctx, tx, audit.AppendInput{
			BookingID: input.BookingID,
			Action:    enums.AuditActionClaimWithdrawn,
			ActorID:   input.OwnerID,
			ActorRole: "owner",
			Metadata:  map[string]string{"claim_id": claim.ID.String()},
		}); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventClaimWithdrawn,
			AggregateType: enums.AggregateClaim,
			AggregateID:   claim.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.OwnerID, Role: "owner"},
			Data: ClaimDecidedEvent{
				ClaimID:    claim.ID,
				BookingID:  claim.BookingID,
				OwnerID:    claim.OwnerID,
				PropertyID: claim.PropertyID,
				Status:     enums.ClaimStatusWithdrawn.String(),
			},
		})
	})
	if err != nil {
		return err
	}

	s.metrics.IncClaimDecided(enums.ClaimStatusWithdrawn.String())
	return nil
}

func (s *service) ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	rows, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list claims")
	}
	return rows, nil
}

func (s *service) ListForOwner(ctx context.Context, bookingID, ownerID uuid.UUID) ([]models.Claim, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	rows, err := s.repo.ListByBookingAndOwner(ctx, bookingID, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner claims")
	}
	return rows, nil
}

func (s *service) ListAvailable(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*AvailableList, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}

	properties, err := s.props.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner properties")
	}

	page, err := s.bookings.ListOpen(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open bookings")
	}

	now := s.now()
	out := &AvailableList{NextCursor: page.NextCursor}
	for _, booking := range page.Bookings {
		// An expired window is closed as far as owners are concerned, even if
		// the sweep has not run yet.
		if booking.AuctionConfig != nil && booking.AuctionConfig.DeadlinePassed(now) {
			continue
		}

		ranked := eligibility.Rank(properties, &booking)
		candidates := make([]PropertyCandidate, 0, len(ranked))
		anyEligible := false
		for _, property := range ranked {
			result := eligibility.Evaluate(&booking, &property)
			if result.Eligible {
				anyEligible = true
			}
			candidates = append(candidates, PropertyCandidate{
				Property: property,
				Eligible: result.Eligible,
				Reasons:  result.Reasons,
			})
		}
		if !anyEligible {
			continue
		}
		out.Bookings = append(out.Bookings, AvailableBooking{
			Booking:    booking,
			Candidates: candidates,
		})
	}
	return out, nil
}

func actorRoleOrOwner(role string) string {
	if role == "" {
		return "owner"
	}
	return role
}

func actorRoleOrAdmin(role string) string {
	if role == "" {
		return "admin"
	}
	return role
}
