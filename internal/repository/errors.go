// Package repository implements the ledger store: users, trains,
// bookings and refresh tokens on top of database/sql.  The sentinel
// values below let higher layers such as handlers distinguish between
// failure scenarios with errors.Is.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested user or train does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness rule.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned by UserRepo.Create when the username is
// already taken.  It matches ErrConflict with errors.Is.
var ErrUsernameExists = fmt.Errorf("username already exists: %w", ErrConflict)

// ErrInvalidRequest is returned when a quantity is not a positive
// integer or a required field is empty.
var ErrInvalidRequest = errors.New("invalid request")

// ErrCapacityExceeded is returned when committing a booking would push
// the seats booked on a train above its total.
var ErrCapacityExceeded = errors.New("not enough seats available")

// ErrVersionConflict is returned by Ledger.CommitBooking when another
// booking was committed on the same train between the availability read
// and the commit.  Callers are expected to retry.
var ErrVersionConflict = errors.New("train version changed during booking")
