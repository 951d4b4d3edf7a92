package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/database"
)

// Ledger commits bookings.  Every commit is a single transaction that
// reads the train, checks remaining seats against that same
// transaction's view, bumps the train's version only if it is still the
// one it read and then writes the booking.  Two transactions that read
// the same version cannot both commit: the second conditional UPDATE
// matches no row, or the database aborts it as a deadlock, and the
// transaction is rolled back with ErrVersionConflict.
type Ledger struct {
	db *sql.DB

	// afterRead runs between the availability read and the writes.
	afterRead func(ctx context.Context, tx *sql.Tx) error
}

// NewLedger returns a Ledger bound to db.
func NewLedger(db *sql.DB) *Ledger { return &Ledger{db: db} }

// BookingReceipt describes a committed booking and the train state
// right after it.
type BookingReceipt struct {
	BookingID      uint64
	TrainID        uint64
	Source         string
	Destination    string
	SeatsBooked    int
	RemainingSeats int
}

// CommitBooking books seats on the train for the user.  Checks run in
// order: unknown train → ErrNotFound, seats <= 0 → ErrInvalidRequest,
// not enough remaining seats → ErrCapacityExceeded.  ErrVersionConflict
// means a concurrent booking won the race and the caller may retry.
// Nothing is written unless the whole transaction commits.
func (l *Ledger) CommitBooking(ctx context.Context, userID, trainID uint64, seats int) (BookingReceipt, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return BookingReceipt{}, fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	train, err := getTrain(ctx, tx, trainID)
	if err != nil {
		return BookingReceipt{}, err
	}
	if seats <= 0 {
		return BookingReceipt{}, ErrInvalidRequest
	}
	booked, err := bookedSeats(ctx, tx, trainID)
	if err != nil {
		return BookingReceipt{}, err
	}
	remaining := train.TotalSeats - booked
	if remaining < seats {
		return BookingReceipt{}, ErrCapacityExceeded
	}

	if l.afterRead != nil {
		if err := l.afterRead(ctx, tx); err != nil {
			return BookingReceipt{}, err
		}
	}

	// The version row is claimed before the booking insert: the insert's
	// foreign key check would otherwise share-lock the train row and two
	// racing InnoDB transactions would deadlock on the upgrade.
	res, err := tx.ExecContext(ctx,
		`UPDATE trains SET version = version + 1 WHERE id = ? AND version = ?`,
		trainID, train.Version)
	if err != nil {
		return BookingReceipt{}, txError("bump train version", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return BookingReceipt{}, err
	}
	if n == 0 {
		return BookingReceipt{}, ErrVersionConflict
	}
	bookingID, err := insertBookingTx(ctx, tx, userID, trainID, seats)
	if err != nil {
		return BookingReceipt{}, txError("insert booking", err)
	}
	if err := tx.Commit(); err != nil {
		return BookingReceipt{}, txError("commit booking", err)
	}
	committed = true
	return BookingReceipt{
		BookingID:      bookingID,
		TrainID:        trainID,
		Source:         train.Source,
		Destination:    train.Destination,
		SeatsBooked:    seats,
		RemainingSeats: remaining - seats,
	}, nil
}

// txError reports lock contention aborted by the database as a version
// conflict so the caller retries it like any other lost race.
func txError(op string, err error) error {
	if database.IsContention(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrVersionConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
