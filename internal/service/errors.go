// Package service holds the booking core: the transaction manager that
// serialises bookings per train, availability reads, booking queries and
// the train registry.
package service

import "errors"

// ErrUnavailable is returned when a booking could not be committed in
// time: the per-train lock could not be acquired, or every commit attempt
// lost a race with a concurrent booking.  The request may be retried.
var ErrUnavailable = errors.New("booking temporarily unavailable, please retry")

// ErrLockNotAcquired is returned by a Locker when the lock is held
// elsewhere and the wait was abandoned.
var ErrLockNotAcquired = errors.New("lock not acquired")
