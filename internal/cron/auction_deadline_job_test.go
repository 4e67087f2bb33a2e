package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/logger"
)

type fakeExpiredReader struct {
	batches [][]models.Booking
	calls   int
}

func (f *fakeExpiredReader) FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

type fakeForceCloser struct {
	closed []uuid.UUID
	errFor map[uuid.UUID]error
	noopAt map[uuid.UUID]bool
}

func (f *fakeForceCloser) ForceCloseExpired(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	if err, ok := f.errFor[bookingID]; ok {
		return false, err
	}
	if f.noopAt[bookingID] {
		return false, nil
	}
	f.closed = append(f.closed, bookingID)
	return true, nil
}

func newDeadlineJob(t *testing.T, reader *fakeExpiredReader, closer *fakeForceCloser) *auctionDeadlineJob {
	t.Helper()
	jobIface, err := NewAuctionDeadlineJob(AuctionDeadlineJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Bookings:  reader,
		Lifecycle: closer,
	})
	if err != nil {
		t.Fatalf("NewAuctionDeadlineJob: %v", err)
	}
	job, ok := jobIface.(*auctionDeadlineJob)
	if !ok {
		t.Fatalf("expected auctionDeadlineJob, got %T", jobIface)
	}
	return job
}

func TestAuctionDeadlineJob_closesExpiredWindows(t *testing.T) {
	first := models.Booking{ID: uuid.New()}
	second := models.Booking{ID: uuid.New()}
	reader := &fakeExpiredReader{batches: [][]models.Booking{{first, second}}}
	closer := &fakeForceCloser{}
	job := newDeadlineJob(t, reader, closer)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(closer.closed) != 2 {
		t.Fatalf("expected 2 closes, got %d", len(closer.closed))
	}
}

func TestAuctionDeadlineJob_continuesPastFailures(t *testing.T) {
	broken := models.Booking{ID: uuid.New()}
	healthy := models.Booking{ID: uuid.New()}
	reader := &fakeExpiredReader{batches: [][]models.Booking{{broken, healthy}}}
	closer := &fakeForceCloser{
		errFor: map[uuid.UUID]error{broken.ID: fmt.Errorf("lock timeout")},
	}
	job := newDeadlineJob(t, reader, closer)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(closer.closed) != 1 || closer.closed[0] != healthy.ID {
		t.Fatalf("healthy booking should still close, got %v", closer.closed)
	}
}

func TestAuctionDeadlineJob_alreadyClosedIsNoop(t *testing.T) {
	booking := models.Booking{ID: uuid.New()}
	reader := &fakeExpiredReader{batches: [][]models.Booking{{booking}}}
	closer := &fakeForceCloser{noopAt: map[uuid.UUID]bool{booking.ID: true}}
	job := newDeadlineJob(t, reader, closer)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(closer.closed) != 0 {
		t.Fatalf("expected no closes, got %v", closer.closed)
	}
}
