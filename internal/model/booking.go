package model

import "time"

// Booking records a number of seats committed on a train for a user.
// Bookings are immutable once created.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who booked.
//  TrainID     – train the seats belong to.
//  SeatsBooked – number of seats; always positive.
//  CreatedAt   – commit timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	UserID      uint64    // bookings.user_id
	TrainID     uint64    // bookings.train_id
	SeatsBooked int       // bookings.seats_booked
	CreatedAt   time.Time // bookings.created_at
}
