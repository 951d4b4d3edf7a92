package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// BookingRepo provides read access to committed bookings.  Bookings are
// only ever written by Ledger.CommitBooking.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ListByUser returns all bookings made by the user ordered by booking
// id.  When the user has no bookings an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return listBookings(ctx, r.db,
		`SELECT id, user_id, train_id, seats_booked, created_at FROM bookings WHERE user_id = ? ORDER BY id`, userID)
}

// ListByTrain returns all bookings committed on the train ordered by
// booking id, which is commit order.
func (r *BookingRepo) ListByTrain(ctx context.Context, trainID uint64) ([]model.Booking, error) {
	return listBookings(ctx, r.db,
		`SELECT id, user_id, train_id, seats_booked, created_at FROM bookings WHERE train_id = ? ORDER BY id`, trainID)
}

func listBookings(ctx context.Context, q querier, query string, arg any) ([]model.Booking, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.TrainID, &b.SeatsBooked, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// insertBookingTx inserts a booking row within tx and returns its ID.
func insertBookingTx(ctx context.Context, tx *sql.Tx, userID, trainID uint64, seats int) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, train_id, seats_booked) VALUES (?, ?, ?)`,
		userID, trainID, seats)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
