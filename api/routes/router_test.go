package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/safarilink/groupstay-backend/internal/audit"
	"github.com/safarilink/groupstay-backend/internal/auction"
	"github.com/safarilink/groupstay-backend/internal/claims"
	"github.com/safarilink/groupstay-backend/pkg/config"
	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/logger"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
	"github.com/safarilink/groupstay-backend/pkg/redis"
	"gorm.io/gorm"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubClaimsService struct{}

func (stubClaimsService) Submit(ctx context.Context, input claims.SubmitInput) (*models.Claim, error) {
	panic("unimplemented")
}

func (stubClaimsService) Accept(ctx context.Context, input claims.DecisionInput) error {
	panic("unimplemented")
}

func (stubClaimsService) Reject(ctx context.Context, input claims.RejectInput) error {
	panic("unimplemented")
}

func (stubClaimsService) Withdraw(ctx context.Context, input claims.WithdrawInput) error {
	panic("unimplemented")
}

func (stubClaimsService) ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Claim, error) {
	return []models.Claim{}, nil
}

func (stubClaimsService) ListForOwner(ctx context.Context, bookingID, ownerID uuid.UUID) ([]models.Claim, error) {
	return []models.Claim{}, nil
}

func (stubClaimsService) ListAvailable(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*claims.AvailableList, error) {
	return &claims.AvailableList{}, nil
}

type stubAuctionService struct{}

func (stubAuctionService) Open(ctx context.Context, input auction.OpenInput) (*models.AuctionConfig, error) {
	panic("unimplemented")
}

func (stubAuctionService) UpdateSettings(ctx context.Context, input auction.SettingsInput) (*models.AuctionConfig, error) {
	panic("unimplemented")
}

func (stubAuctionService) Close(ctx context.Context, input auction.CloseInput) error {
	panic("unimplemented")
}

func (stubAuctionService) ForceCloseExpired(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	panic("unimplemented")
}

type stubAuditTrail struct{}

func (stubAuditTrail) Append(ctx context.Context, tx *gorm.DB, input audit.AppendInput) (*models.AuditEntry, error) {
	panic("unimplemented")
}

func (stubAuditTrail) ListForBooking(ctx context.Context, bookingID uuid.UUID, params pagination.Params) (*audit.Page, error) {
	return &audit.Page{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Port: "0"},
		Auction: config.AuctionConfig{SubmitIdempotencyTTL: time.Hour},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil, // metrics gatherer
		stubClaimsService{},
		stubAuctionService{},
		stubAuditTrail{},
	)
}

func withActor(req *http.Request, role string) *http.Request {
	req.Header.Set("X-Actor-Id", uuid.NewString())
	req.Header.Set("X-Actor-Role", role)
	return req
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestAPIRejectsMissingActorHeaders(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owner/claims/available", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor headers got %d", resp.Code)
	}
}

func TestAPIRejectsMalformedActorID(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owner/claims/available", nil)
	req.Header.Set("X-Actor-Id", "not-a-uuid")
	req.Header.Set("X-Actor-Role", "owner")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed actor id got %d", resp.Code)
	}
}

func TestOwnerGroupRequiresOwnerRole(t *testing.T) {
	router := newTestRouter(testConfig())

	admin := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/owner/claims/available", nil), "admin")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on owner route got %d", resp.Code)
	}

	owner := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/owner/claims/available", nil), "owner")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, owner)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	router := newTestRouter(testConfig())
	path := "/api/v1/admin/assignments/" + uuid.NewString() + "/claims"

	owner := withActor(httptest.NewRequest(http.MethodGet, path, nil), "owner")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, owner)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for owner on admin route got %d", resp.Code)
	}

	admin := withActor(httptest.NewRequest(http.MethodGet, path, nil), "admin")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin claims listing got %d", resp.Code)
	}
}

func TestClaimSubmitRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(testConfig())
	body := strings.NewReader(`{"bookingId":"` + uuid.NewString() + `"}`)
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", body), "owner")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for keyless claim submission got %d", resp.Code)
	}
}

func TestClaimDecisionRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(testConfig())
	path := "/api/v1/admin/assignments/" + uuid.NewString() + "/claims/" + uuid.NewString() + "/accept"
	req := withActor(httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`)), "admin")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for keyless accept got %d", resp.Code)
	}
}

func TestOwnerBookingClaimsReturnsList(t *testing.T) {
	router := newTestRouter(testConfig())
	path := "/api/v1/owner/bookings/" + uuid.NewString() + "/claims"
	req := withActor(httptest.NewRequest(http.MethodGet, path, nil), "owner")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner booking claims got %d", resp.Code)
	}
}
