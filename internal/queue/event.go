// Package queue carries booking events over RabbitMQ.
package queue

import "time"

// BookingQueue is the durable queue booking confirmations are published to.
const BookingQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking commits.  It holds
// enough for downstream consumers to log or notify without reading the
// ledger.
type BookingConfirmedEvent struct {
	BookingID      uint64    `json:"booking_id"`
	UserID         uint64    `json:"user_id"`
	TrainID        uint64    `json:"train_id"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	SeatsBooked    int       `json:"seats_booked"`
	RemainingSeats int       `json:"remaining_seats"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}
