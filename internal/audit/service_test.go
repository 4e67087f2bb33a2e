package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/enums"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn  func(ctx context.Context, entry *models.AuditEntry) error
	txApplied bool
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	f.txApplied = true
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) ListByBookingID(ctx context.Context, bookingID uuid.UUID, params pagination.Params) (*Page, error) {
	return &Page{}, nil
}

func TestService_Append(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	reason := "policy_decision"
	details := "owner withdrew"
	input := AppendInput{
		BookingID:     uuid.New(),
		Action:        enums.AuditActionClosed,
		ActorID:       uuid.New(),
		ActorRole:     "admin",
		ReasonCode:    &reason,
		ReasonDetails: &details,
		Metadata:      map[string]string{"claim_count": "3"},
	}

	var created *models.AuditEntry
	repo.createFn = func(ctx context.Context, entry *models.AuditEntry) error {
		created = entry
		return nil
	}

	got, err := svc.Append(context.Background(), &gorm.DB{}, input)
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if created == nil {
		t.Fatal("expected audit entry to be created")
	}
	if !repo.txApplied {
		t.Fatal("expected repository to be rebound to the transaction")
	}
	if created.BookingID != input.BookingID || created.Action != input.Action {
		t.Fatalf("unexpected entry data: %+v", created)
	}
	if created.ReasonCode == nil || *created.ReasonCode != reason {
		t.Fatalf("reason code not carried: %+v", created)
	}
	if created.ReasonDetails == nil || *created.ReasonDetails != details {
		t.Fatalf("reason details not carried: %+v", created)
	}
	if created.Metadata["claim_count"] != "3" {
		t.Fatalf("metadata not carried: %+v", created.Metadata)
	}
	if got != created {
		t.Fatalf("service should return created entry")
	}
}

func TestService_AppendValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		input AppendInput
	}{
		{
			name: "missing booking id",
			input: AppendInput{
				Action:  enums.AuditActionOpened,
				ActorID: uuid.New(),
			},
		},
		{
			name: "missing actor",
			input: AppendInput{
				BookingID: uuid.New(),
				Action:    enums.AuditActionOpened,
			},
		},
		{
			name: "invalid action",
			input: AppendInput{
				BookingID: uuid.New(),
				Action:    enums.AuditAction("not_real"),
				ActorID:   uuid.New(),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Append(context.Background(), nil, tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestService_AppendRepoError(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	expectedErr := errors.New("boom")
	repo.createFn = func(ctx context.Context, entry *models.AuditEntry) error {
		return expectedErr
	}

	if _, err := svc.Append(context.Background(), nil, AppendInput{
		BookingID: uuid.New(),
		Action:    enums.AuditActionClaimSubmitted,
		ActorID:   uuid.New(),
		ActorRole: "owner",
	}); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
