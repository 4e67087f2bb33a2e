package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/safarilink/groupstay-backend/pkg/db/models"
	"github.com/safarilink/groupstay-backend/pkg/logger"
)

const (
	deadlineSweepBatchSize = 100
	deadlineSweepMaxRounds = 10
)

type expiredWindowReader interface {
	FindExpiredOpen(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)
}

type windowForceCloser interface {
	ForceCloseExpired(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

// AuctionDeadlineJobParams configure the deadline sweep.
type AuctionDeadlineJobParams struct {
	Logger    *logger.Logger
	Bookings  expiredWindowReader
	Lifecycle windowForceCloser
}

// NewAuctionDeadlineJob builds the job that closes claims windows whose
// deadline has elapsed.
func NewAuctionDeadlineJob(params AuctionDeadlineJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("bookings reader required")
	}
	if params.Lifecycle == nil {
		return nil, fmt.Errorf("lifecycle service required")
	}
	return &auctionDeadlineJob{
		logg:      params.Logger,
		bookings:  params.Bookings,
		lifecycle: params.Lifecycle,
		now:       time.Now,
	}, nil
}

type auctionDeadlineJob struct {
	logg      *logger.Logger
	bookings  expiredWindowReader
	lifecycle windowForceCloser
	now       func() time.Time
}

func (j *auctionDeadlineJob) Name() string { return "auction-deadline" }

func (j *auctionDeadlineJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	closed := 0
	var errs []error

	// Each close takes its own short booking-scoped transaction, so one
	// slow or failing booking never holds up the rest of the sweep.
	for round := 0; round < deadlineSweepMaxRounds; round++ {
		expired, err := j.bookings.FindExpiredOpen(ctx, cutoff, deadlineSweepBatchSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("query expired windows: %w", err))
			break
		}
		if len(expired) == 0 {
			break
		}
		progressed := false
		for _, booking := range expired {
			didClose, err := j.lifecycle.ForceCloseExpired(ctx, booking.ID)
			if err != nil {
				errs = append(errs, fmt.Errorf("force close booking %s: %w", booking.ID, err))
				continue
			}
			if didClose {
				closed++
				progressed = true
			}
		}
		if !progressed || len(expired) < deadlineSweepBatchSize {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"closed": closed})
	j.logg.Info(logCtx, "deadline sweep complete")
	return multierr.Combine(errs...)
}
