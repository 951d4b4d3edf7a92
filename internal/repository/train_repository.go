package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// TrainRepo manages persistence for trains and answers availability
// queries.  Availability is never stored: it is always derived from
// total_seats minus the seats booked on the train.
type TrainRepo struct {
	db *sql.DB
}

// NewTrainRepo constructs a TrainRepo given a DB handle.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// Create inserts a train and returns its ID.  totalSeats must be
// positive; the schema enforces the same rule.
func (r *TrainRepo) Create(ctx context.Context, source, destination string, totalSeats int) (uint64, error) {
	if totalSeats <= 0 {
		return 0, ErrInvalidRequest
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO trains (source, destination, total_seats) VALUES (?, ?, ?)`,
		source, destination, totalSeats)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns the train with the given id or ErrNotFound.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (model.Train, error) {
	return getTrain(ctx, r.db, id)
}

// RemainingSeats returns total_seats minus the seats booked on the train
// as seen by a standalone read.  ErrNotFound is returned for an unknown
// train.
func (r *TrainRepo) RemainingSeats(ctx context.Context, id uint64) (int, error) {
	return remainingSeats(ctx, r.db, id)
}

// ListAvailability returns every train running from source to
// destination together with its remaining seats, ordered by train id.
// Matching is exact; an empty source or destination matches nothing.
func (r *TrainRepo) ListAvailability(ctx context.Context, source, destination string) ([]model.TrainAvailability, error) {
	const q = `SELECT t.id, t.source, t.destination, t.total_seats, COALESCE(SUM(b.seats_booked), 0)
               FROM trains t
               LEFT JOIN bookings b ON b.train_id = t.id
               WHERE t.source = ? AND t.destination = ?
               GROUP BY t.id, t.source, t.destination, t.total_seats
               ORDER BY t.id`
	rows, err := r.db.QueryContext(ctx, q, source, destination)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TrainAvailability, 0)
	for rows.Next() {
		var (
			a      model.TrainAvailability
			booked int64
		)
		if err := rows.Scan(&a.TrainID, &a.Source, &a.Destination, &a.TotalSeats, &booked); err != nil {
			return nil, err
		}
		a.AvailableSeats = a.TotalSeats - int(booked)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func getTrain(ctx context.Context, q querier, id uint64) (model.Train, error) {
	var t model.Train
	err := q.QueryRowContext(ctx,
		`SELECT id, source, destination, total_seats, version, created_at FROM trains WHERE id = ?`, id,
	).Scan(&t.ID, &t.Source, &t.Destination, &t.TotalSeats, &t.Version, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Train{}, ErrNotFound
	}
	return t, err
}

// bookedSeats sums the seats committed on a train.
func bookedSeats(ctx context.Context, q querier, trainID uint64) (int, error) {
	var booked int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(seats_booked), 0) FROM bookings WHERE train_id = ?`, trainID,
	).Scan(&booked)
	return int(booked), err
}

func remainingSeats(ctx context.Context, q querier, trainID uint64) (int, error) {
	t, err := getTrain(ctx, q, trainID)
	if err != nil {
		return 0, err
	}
	booked, err := bookedSeats(ctx, q, trainID)
	if err != nil {
		return 0, err
	}
	return t.TotalSeats - booked, nil
}
