package model

import "time"

// Train is a transport unit with a seat capacity fixed at creation.
//
// Fields:
//  ID          – primary key identifier.
//  Source      – departure station.
//  Destination – arrival station.
//  TotalSeats  – capacity; always positive.
//  Version     – bumped by every committed booking, used as the
//                compare-and-commit guard for the train's seat pool.
//  CreatedAt   – creation timestamp.
type Train struct {
	ID          uint64    // trains.id
	Source      string    // trains.source
	Destination string    // trains.destination
	TotalSeats  int       // trains.total_seats
	Version     uint64    // trains.version
	CreatedAt   time.Time // trains.created_at
}

// TrainAvailability is a train together with its remaining seats as
// observed at query time.
type TrainAvailability struct {
	TrainID        uint64 `json:"train_id"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}
