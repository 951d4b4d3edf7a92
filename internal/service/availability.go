package service

import (
	"context"
	"strings"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// AvailabilityReader is the read side of the train store.
type AvailabilityReader interface {
	RemainingSeats(ctx context.Context, trainID uint64) (int, error)
	ListAvailability(ctx context.Context, source, destination string) ([]model.TrainAvailability, error)
}

// Availability answers seat availability questions.  Reads take no lock
// and may be stale by the time the caller acts on them; only a booking
// commit is authoritative.
type Availability struct {
	store AvailabilityReader
}

// NewAvailability returns an Availability reading from store.
func NewAvailability(store AvailabilityReader) *Availability {
	return &Availability{store: store}
}

// RemainingSeats returns the seats still bookable on trainID, or
// repository.ErrNotFound.
func (a *Availability) RemainingSeats(ctx context.Context, trainID uint64) (int, error) {
	return a.store.RemainingSeats(ctx, trainID)
}

// ListBySegment lists trains from source to destination with their
// remaining seats.  Surrounding whitespace is ignored.
func (a *Availability) ListBySegment(ctx context.Context, source, destination string) ([]model.TrainAvailability, error) {
	out, err := a.store.ListAvailability(ctx, strings.TrimSpace(source), strings.TrimSpace(destination))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.TrainAvailability{}
	}
	return out, nil
}
