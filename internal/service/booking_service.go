package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// TrainReader loads trains.
type TrainReader interface {
	GetByID(ctx context.Context, id uint64) (model.Train, error)
}

// BookingCommitter commits one booking atomically.  repository.Ledger is
// the production implementation.
type BookingCommitter interface {
	CommitBooking(ctx context.Context, userID, trainID uint64, seats int) (repository.BookingReceipt, error)
}

// BookingLister lists bookings of a user.
type BookingLister interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// EventPublisher announces committed bookings.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingDeps are the collaborators of a BookingManager.  Events may be
// nil.
type BookingDeps struct {
	Trains   TrainReader
	Ledger   BookingCommitter
	Bookings BookingLister
	Locker   Locker
	Events   EventPublisher
}

const publishTimeout = 2 * time.Second

// BookingManager books seats.  Bookings on the same train are serialised
// by the Locker; the ledger's version check rejects any commit that
// raced past it, and those attempts are retried.  Bookings on different
// trains never wait on each other.
type BookingManager struct {
	deps       BookingDeps
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewBookingManager wires a BookingManager.
func NewBookingManager(deps BookingDeps, cfg config.BookingConfig, log *zap.Logger) *BookingManager {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Locker == nil {
		deps.Locker = NewLocalLocker(cfg.LockStripes)
	}
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &BookingManager{
		deps:       deps,
		maxRetries: retries,
		backoff:    cfg.RetryBackoff,
		log:        log,
		now:        time.Now,
	}
}

// BookSeats books seats on trainID for userID and returns the booking id.
//
// Errors: repository.ErrNotFound for an unknown train,
// repository.ErrInvalidRequest when seats <= 0,
// repository.ErrCapacityExceeded when fewer seats remain, and
// ErrUnavailable when the train stayed contended for every attempt.
func (m *BookingManager) BookSeats(ctx context.Context, userID, trainID uint64, seats int) (uint64, error) {
	if _, err := m.deps.Trains.GetByID(ctx, trainID); err != nil {
		return 0, err
	}
	if seats <= 0 {
		return 0, repository.ErrInvalidRequest
	}

	unlock, err := m.deps.Locker.Lock(ctx, trainLockKey(trainID))
	if err != nil {
		m.log.Warn("train lock not acquired", zap.Uint64("train_id", trainID), zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	receipt, err := m.commit(ctx, trainID, userID, seats)
	unlock()
	if err != nil {
		return 0, err
	}

	m.log.Info("booking committed",
		zap.Uint64("booking_id", receipt.BookingID),
		zap.Uint64("user_id", userID),
		zap.Uint64("train_id", trainID),
		zap.Int("seats", seats),
		zap.Int("remaining", receipt.RemainingSeats))
	m.publish(ctx, userID, receipt)
	return receipt.BookingID, nil
}

// commit runs the compare-and-commit loop.  The caller holds the train
// lock.
func (m *BookingManager) commit(ctx context.Context, trainID, userID uint64, seats int) (repository.BookingReceipt, error) {
	var (
		receipt repository.BookingReceipt
		err     error
	)
	for attempt := 1; ; attempt++ {
		receipt, err = m.deps.Ledger.CommitBooking(ctx, userID, trainID, seats)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			if errors.Is(err, repository.ErrCapacityExceeded) {
				m.log.Debug("booking rejected: capacity",
					zap.Uint64("train_id", trainID), zap.Int("seats", seats))
			}
			return receipt, err
		}
		if attempt >= m.maxRetries {
			m.log.Warn("booking retries exhausted",
				zap.Uint64("train_id", trainID), zap.Int("attempts", attempt))
			return receipt, ErrUnavailable
		}
		if !sleepCtx(ctx, m.backoff*time.Duration(attempt)) {
			return receipt, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		}
	}
}

// BookingsForUser returns the user's bookings ordered by booking id.
// A user without bookings gets an empty slice.
func (m *BookingManager) BookingsForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out, err := m.deps.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Booking{}
	}
	return out, nil
}

func (m *BookingManager) publish(ctx context.Context, userID uint64, r repository.BookingReceipt) {
	if m.deps.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := m.deps.Events.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:      r.BookingID,
		UserID:         userID,
		TrainID:        r.TrainID,
		Source:         r.Source,
		Destination:    r.Destination,
		SeatsBooked:    r.SeatsBooked,
		RemainingSeats: r.RemainingSeats,
		ConfirmedAt:    m.now().UTC(),
	})
	if err != nil {
		m.log.Warn("booking event not published", zap.Uint64("booking_id", r.BookingID), zap.Error(err))
	}
}

func trainLockKey(trainID uint64) string {
	return "train:" + strconv.FormatUint(trainID, 10)
}
