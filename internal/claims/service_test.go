package claims

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/internal/audit"
	"github.com/safarilink/groupstay-backend/internal/bookings"
	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/enums"
	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
	"github.com/safarilink/groupstay-backend/pkg/outbox"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

type stubClaimsRepo struct {
	mu    sync.Mutex
	order []uuid.UUID
	rows  map[uuid.UUID]*models.Claim
}

func newStubClaimsRepo() *stubClaimsRepo {
	return &stubClaimsRepo{rows: make(map[uuid.UUID]*models.Claim)}
}

func (s *stubClaimsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubClaimsRepo) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.BookingID == claim.BookingID && existing.OwnerID == claim.OwnerID && existing.Status.IsLive() {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_claims_booking_owner_live"`)
		}
	}
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	claim.CreatedAt = time.Now().UTC()
	s.rows[claim.ID] = claim
	s.order = append(s.order, claim.ID)
	return claim, nil
}

func (s *stubClaimsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *claim
	return &copied, nil
}

func (s *stubClaimsRepo) FindLiveByBookingAndOwner(ctx context.Context, bookingID, ownerID uuid.UUID) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, claim := range s.rows {
		if claim.BookingID == bookingID && claim.OwnerID == ownerID && claim.Status.IsLive() {
			copied := *claim
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubClaimsRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Claim{}
	for _, id := range s.order {
		if claim := s.rows[id]; claim.BookingID == bookingID {
			out = append(out, *claim)
		}
	}
	return out, nil
}

func (s *stubClaimsRepo) ListByBookingAndOwner(ctx context.Context, bookingID, ownerID uuid.UUID) ([]models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Claim{}
	for _, id := range s.order {
		if claim := s.rows[id]; claim.BookingID == bookingID && claim.OwnerID == ownerID {
			out = append(out, *claim)
		}
	}
	return out, nil
}

func (s *stubClaimsRepo) ListLiveByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Claim{}
	for _, id := range s.order {
		if claim := s.rows[id]; claim.BookingID == bookingID && claim.Status.IsLive() {
			out = append(out, *claim)
		}
	}
	return out, nil
}

func (s *stubClaimsRepo) UpdateClaim(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			if v, ok := value.(enums.ClaimStatus); ok {
				claim.Status = v
			}
		case "decided_at":
			if v, ok := value.(time.Time); ok {
				claim.DecidedAt = &v
			}
		case "decided_by":
			if v, ok := value.(uuid.UUID); ok {
				claim.DecidedBy = &v
			}
		}
	}
	return nil
}

type stubBookingsRepo struct {
	booking        *models.Booking
	openPage       *bookings.OpenBookingList
	bookingUpdates map[string]any
	configUpdates  map[string]any
}

func (s *stubBookingsRepo) WithTx(tx *gorm.DB) bookings.Repository { return s }

func (s *stubBookingsRepo) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	panic("not implemented")
}

func (s *stubBookingsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.FindByIDForUpdate(ctx, id)
}

func (s *stubBookingsRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.booking, nil
}

func (s *stubBookingsRepo) UpdateBooking(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.bookingUpdates = updates
	if v, ok := updates["confirmed_property_id"].(uuid.UUID); ok {
		s.booking.ConfirmedPropertyID = &v
	}
	if v, ok := updates["status"].(enums.BookingStatus); ok {
		s.booking.Status = v
	}
	return nil
}

func (s *stubBookingsRepo) CreateAuctionConfig(ctx context.Context, cfg *models.AuctionConfig) (*models.AuctionConfig, error) {
	s.booking.AuctionConfig = cfg
	return cfg, nil
}

func (s *stubBookingsRepo) UpdateAuctionConfig(ctx context.Context, bookingID uuid.UUID, updates map[string]any) error {
	s.configUpdates = updates
	if v, ok := updates["is_open"].(bool); ok && s.booking.AuctionConfig != nil {
		s.booking.AuctionConfig.IsOpen = v
	}
	return nil
}

func (s *stubBookingsRepo) ListOpen(ctx context.Context, params pagination.Params) (*bookings.OpenBookingList, error) {
	if s.openPage == nil {
		return &bookings.OpenBookingList{}, nil
	}
	return s.openPage, nil
}

func (s *stubBookingsRepo) FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	panic("not implemented")
}

type stubPropsRepo struct {
	props map[uuid.UUID]*models.Property
}

func (s *stubPropsRepo) WithTx(tx *gorm.DB) bookings.PropertyRepository { return s }

func (s *stubPropsRepo) CreateProperty(ctx context.Context, property *models.Property) (*models.Property, error) {
	panic("not implemented")
}

func (s *stubPropsRepo) FindPropertyByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, ok := s.props[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return property, nil
}

func (s *stubPropsRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	out := []models.Property{}
	for _, property := range s.props {
		if property.OwnerID == ownerID {
			out = append(out, *property)
		}
	}
	return out, nil
}

type stubAuditService struct {
	mu      sync.Mutex
	entries []audit.AppendInput
	err     error
}

func (s *stubAuditService) Append(ctx context.Context, tx *gorm.DB, input audit.AppendInput) (*models.AuditEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, input)
	return &models.AuditEntry{BookingID: input.BookingID, Action: input.Action}, nil
}

func (s *stubAuditService) ListForBooking(ctx context.Context, bookingID uuid.UUID, params pagination.Params) (*audit.Page, error) {
	return &audit.Page{}, nil
}

func (s *stubAuditService) actions() []enums.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]enums.AuditAction, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.Action)
	}
	return out
}

type stubOutboxPublisher struct {
	mu     sync.Mutex
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc       Service
	claims    *stubClaimsRepo
	bookings  *stubBookingsRepo
	props     *stubPropsRepo
	audits    *stubAuditService
	outbox    *stubOutboxPublisher
	bookingID uuid.UUID
	ownerID   uuid.UUID
	propID    uuid.UUID
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bookingID := uuid.New()
	ownerID := uuid.New()
	propID := uuid.New()

	opened := time.Now().UTC().Add(-time.Hour)
	deadline := time.Now().UTC().Add(48 * time.Hour)
	booking := &models.Booking{
		ID:                bookingID,
		GroupName:         "Safari Club",
		ToRegion:          "Arusha",
		AccommodationType: "hotel",
		Headcount:         20,
		RoomsNeeded:       8,
		Status:            enums.BookingStatusPending,
		AuctionConfig: &models.AuctionConfig{
			ID:        uuid.New(),
			BookingID: bookingID,
			IsOpen:    true,
			OpenedAt:  &opened,
			Deadline:  &deadline,
		},
	}

	property := &models.Property{
		ID:              propID,
		OwnerID:         ownerID,
		Name:            "Kilima Lodge",
		Region:          "Arusha",
		Type:            "hotel",
		AllowsGroupStay: true,
	}

	claimsRepo := newStubClaimsRepo()
	bookingsRepo := &stubBookingsRepo{booking: booking}
	propsRepo := &stubPropsRepo{props: map[uuid.UUID]*models.Property{propID: property}}
	audits := &stubAuditService{}
	publisher := &stubOutboxPublisher{}

	svc, err := NewService(claimsRepo, bookingsRepo, propsRepo, audits, stubTxRunner{}, publisher, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	return &fixture{
		svc:       svc,
		claims:    claimsRepo,
		bookings:  bookingsRepo,
		props:     propsRepo,
		audits:    audits,
		outbox:    publisher,
		bookingID: bookingID,
		ownerID:   ownerID,
		propID:    propID,
	}
}

func (f *fixture) submitInput() SubmitInput {
	return SubmitInput{
		BookingID:            f.bookingID,
		OwnerID:              f.ownerID,
		PropertyID:           f.propID,
		OfferedPricePerNight: decimal.NewFromInt(100000),
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestSubmitHappyPath(t *testing.T) {
	f := newFixture(t)

	claim, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if claim.Status != enums.ClaimStatusPending {
		t.Fatalf("expected pending claim, got %s", claim.Status)
	}
	if claim.BookingID != f.bookingID || claim.OwnerID != f.ownerID || claim.PropertyID != f.propID {
		t.Fatalf("claim fields wrong: %+v", claim)
	}

	actions := f.audits.actions()
	if len(actions) != 1 || actions[0] != enums.AuditActionClaimSubmitted {
		t.Fatalf("expected one claim_submitted audit entry, got %v", actions)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventClaimSubmitted {
		t.Fatalf("expected claim_submitted outbox event, got %+v", f.outbox.events)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
		code   pkgerrors.Code
	}{
		{"missing booking", func(in *SubmitInput) { in.BookingID = uuid.Nil }, pkgerrors.CodeValidation},
		{"missing owner", func(in *SubmitInput) { in.OwnerID = uuid.Nil }, pkgerrors.CodeUnauthorized},
		{"missing property", func(in *SubmitInput) { in.PropertyID = uuid.Nil }, pkgerrors.CodeValidation},
		{"zero price", func(in *SubmitInput) { in.OfferedPricePerNight = decimal.Zero }, pkgerrors.CodeValidation},
		{"negative discount", func(in *SubmitInput) { in.DiscountPercent = decPtr("-1") }, pkgerrors.CodeValidation},
		{"discount over 100", func(in *SubmitInput) { in.DiscountPercent = decPtr("101") }, pkgerrors.CodeValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := f.submitInput()
			tc.mutate(&input)
			_, err := f.svc.Submit(context.Background(), input)
			expectCode(t, err, tc.code)
		})
	}
}

func TestSubmitWhenNotOpen(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.AuctionConfig.IsOpen = false

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	expectCode(t, err, pkgerrors.CodeStateConflict)

	f.bookings.booking.AuctionConfig = nil
	_, err = f.svc.Submit(context.Background(), f.submitInput())
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSubmitAfterDeadline(t *testing.T) {
	f := newFixture(t)
	past := time.Now().UTC().Add(-time.Minute)
	f.bookings.booking.AuctionConfig.Deadline = &past

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSubmitIneligibleProperty(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.AccommodationType = "villa"

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	expectCode(t, err, pkgerrors.CodeConflict)

	details, ok := pkgerrors.As(err).Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", pkgerrors.As(err).Details())
	}
	reasons, ok := details["reasons"].([]string)
	if !ok || len(reasons) != 1 || reasons[0] != "Type mismatch (needs villa)" {
		t.Fatalf("unexpected reasons: %v", details["reasons"])
	}
}

func TestSubmitPropertyOwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	input := f.submitInput()
	input.OwnerID = uuid.New()

	_, err := f.svc.Submit(context.Background(), input)
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestSubmitMinDiscountEnforced(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.AuctionConfig.MinDiscountPercent = decPtr("10")

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	expectCode(t, err, pkgerrors.CodeValidation)

	input := f.submitInput()
	input.DiscountPercent = decPtr("5")
	_, err = f.svc.Submit(context.Background(), input)
	expectCode(t, err, pkgerrors.CodeValidation)

	input.DiscountPercent = decPtr("10")
	if _, err := f.svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("discount at minimum should pass: %v", err)
	}
}

func TestSubmitDuplicateLiveClaim(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Submit(context.Background(), f.submitInput()); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := f.svc.Submit(context.Background(), f.submitInput())
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestSubmitConcurrentDoubleSubmit(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Submit(context.Background(), f.submitInput())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	conflicted := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeConflict:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Fatalf("expected exactly one winner, got %d success / %d conflict", succeeded, conflicted)
	}

	live, err := f.claims.ListLiveByBooking(context.Background(), f.bookingID)
	if err != nil {
		t.Fatalf("list live: %v", err)
	}
	if len(live) != 1 {
		t.Fatalf("expected a single live claim, got %d", len(live))
	}
}

func submitRival(t *testing.T, f *fixture) *models.Claim {
	t.Helper()

	rivalOwner := uuid.New()
	rivalProp := uuid.New()
	f.props.props[rivalProp] = &models.Property{
		ID:              rivalProp,
		OwnerID:         rivalOwner,
		Name:            "Rival Lodge",
		Region:          "Arusha",
		Type:            "hotel",
		AllowsGroupStay: true,
	}
	claim, err := f.svc.Submit(context.Background(), SubmitInput{
		BookingID:            f.bookingID,
		OwnerID:              rivalOwner,
		PropertyID:           rivalProp,
		OfferedPricePerNight: decimal.NewFromInt(90000),
	})
	if err != nil {
		t.Fatalf("rival submit failed: %v", err)
	}
	return claim
}

func TestAcceptSupersedesSiblingsAndConfirmsBooking(t *testing.T) {
	f := newFixture(t)

	winner, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	loserA := submitRival(t, f)
	loserB := submitRival(t, f)

	adminID := uuid.New()
	if err := f.svc.Accept(context.Background(), DecisionInput{
		BookingID: f.bookingID,
		ClaimID:   winner.ID,
		ActorID:   adminID,
	}); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	accepted, _ := f.claims.FindByID(context.Background(), winner.ID)
	if accepted.Status != enums.ClaimStatusAccepted {
		t.Fatalf("winner status = %s", accepted.Status)
	}
	for _, loser := range []uuid.UUID{loserA.ID, loserB.ID} {
		claim, _ := f.claims.FindByID(context.Background(), loser)
		if claim.Status != enums.ClaimStatusSuperseded {
			t.Fatalf("sibling %s status = %s, want superseded", loser, claim.Status)
		}
	}

	if f.bookings.booking.ConfirmedPropertyID == nil || *f.bookings.booking.ConfirmedPropertyID != f.propID {
		t.Fatalf("booking confirmed property not set: %+v", f.bookings.booking.ConfirmedPropertyID)
	}
	if f.bookings.booking.Status != enums.BookingStatusConfirmed {
		t.Fatalf("booking status = %s", f.bookings.booking.Status)
	}
	if f.bookings.booking.AuctionConfig.IsOpen {
		t.Fatal("claims window should be closed after acceptance")
	}

	acceptedCount := 0
	supersededCount := 0
	for _, action := range f.audits.actions() {
		switch action {
		case enums.AuditActionClaimAccepted:
			acceptedCount++
		case enums.AuditActionClaimSuperseded:
			supersededCount++
		}
	}
	if acceptedCount != 1 || supersededCount != 2 {
		t.Fatalf("audit entries: accepted=%d superseded=%d", acceptedCount, supersededCount)
	}
}

func TestAcceptAlreadyDecided(t *testing.T) {
	f := newFixture(t)

	winner, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	adminID := uuid.New()
	if err := f.svc.Accept(context.Background(), DecisionInput{
		BookingID: f.bookingID, ClaimID: winner.ID, ActorID: adminID,
	}); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	err = f.svc.Accept(context.Background(), DecisionInput{
		BookingID: f.bookingID, ClaimID: winner.ID, ActorID: adminID,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAcceptUnknownClaim(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Accept(context.Background(), DecisionInput{
		BookingID: f.bookingID, ClaimID: uuid.New(), ActorID: uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestRejectLiveClaim(t *testing.T) {
	f := newFixture(t)

	claim, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reason := "price too high"
	if err := f.svc.Reject(context.Background(), RejectInput{
		BookingID: f.bookingID, ClaimID: claim.ID, ActorID: uuid.New(), Reason: &reason,
	}); err != nil {
		t.Fatalf("Reject error: %v", err)
	}

	rejected, _ := f.claims.FindByID(context.Background(), claim.ID)
	if rejected.Status != enums.ClaimStatusRejected {
		t.Fatalf("status = %s", rejected.Status)
	}
}

func TestRejectDecidedClaimIsNoop(t *testing.T) {
	f := newFixture(t)

	winner, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := f.svc.Accept(context.Background(), DecisionInput{
		BookingID: f.bookingID, ClaimID: winner.ID, ActorID: uuid.New(),
	}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// racing reject after acceptance: terminal state dominates, no error
	if err := f.svc.Reject(context.Background(), RejectInput{
		BookingID: f.bookingID, ClaimID: winner.ID, ActorID: uuid.New(),
	}); err != nil {
		t.Fatalf("reject of decided claim should be a no-op, got %v", err)
	}

	claim, _ := f.claims.FindByID(context.Background(), winner.ID)
	if claim.Status != enums.ClaimStatusAccepted {
		t.Fatalf("accepted claim mutated to %s", claim.Status)
	}
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)

	claim, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	err = f.svc.Withdraw(context.Background(), WithdrawInput{
		BookingID: f.bookingID, ClaimID: claim.ID, OwnerID: uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)

	if err := f.svc.Withdraw(context.Background(), WithdrawInput{
		BookingID: f.bookingID, ClaimID: claim.ID, OwnerID: f.ownerID,
	}); err != nil {
		t.Fatalf("Withdraw error: %v", err)
	}

	withdrawn, _ := f.claims.FindByID(context.Background(), claim.ID)
	if withdrawn.Status != enums.ClaimStatusWithdrawn {
		t.Fatalf("status = %s", withdrawn.Status)
	}

	err = f.svc.Withdraw(context.Background(), WithdrawInput{
		BookingID: f.bookingID, ClaimID: claim.ID, OwnerID: f.ownerID,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestWithdrawAllowsResubmit(t *testing.T) {
	f := newFixture(t)

	claim, err := f.svc.Submit(context.Background(), f.submitInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := f.svc.Withdraw(context.Background(), WithdrawInput{
		BookingID: f.bookingID, ClaimID: claim.ID, OwnerID: f.ownerID,
	}); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	if _, err := f.svc.Submit(context.Background(), f.submitInput()); err != nil {
		t.Fatalf("resubmit after withdrawal should succeed: %v", err)
	}
}

func TestListAvailableFiltersExpiredAndIneligible(t *testing.T) {
	f := newFixture(t)

	now := time.Now().UTC()
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Minute)

	open := models.Booking{
		ID:                uuid.New(),
		ToRegion:          "Arusha",
		AccommodationType: "hotel",
		AuctionConfig:     &models.AuctionConfig{IsOpen: true, Deadline: &future},
	}
	expired := models.Booking{
		ID:                uuid.New(),
		ToRegion:          "Arusha",
		AccommodationType: "hotel",
		AuctionConfig:     &models.AuctionConfig{IsOpen: true, Deadline: &past},
	}
	wrongRegion := models.Booking{
		ID:                uuid.New(),
		ToRegion:          "Mwanza",
		AccommodationType: "hotel",
		AuctionConfig:     &models.AuctionConfig{IsOpen: true, Deadline: &future},
	}
	f.bookings.openPage = &bookings.OpenBookingList{
		Bookings: []models.Booking{open, expired, wrongRegion},
	}

	list, err := f.svc.ListAvailable(context.Background(), f.ownerID, pagination.Params{})
	if err != nil {
		t.Fatalf("ListAvailable error: %v", err)
	}
	if len(list.Bookings) != 1 {
		t.Fatalf("expected one claimable booking, got %d", len(list.Bookings))
	}
	if list.Bookings[0].Booking.ID != open.ID {
		t.Fatalf("wrong booking surfaced: %s", list.Bookings[0].Booking.ID)
	}
	candidates := list.Bookings[0].Candidates
	if len(candidates) != 1 || !candidates[0].Eligible {
		t.Fatalf("expected one eligible candidate, got %+v", candidates)
	}
}
