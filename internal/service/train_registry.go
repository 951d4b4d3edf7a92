package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// TrainCreator inserts trains.
type TrainCreator interface {
	Create(ctx context.Context, source, destination string, totalSeats int) (uint64, error)
}

// CacheInvalidator drops cached availability listings.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// TrainRegistry registers new trains.
type TrainRegistry struct {
	trains TrainCreator
	cache  CacheInvalidator
	log    *zap.Logger
}

// NewTrainRegistry returns a TrainRegistry.  cache may be nil.
func NewTrainRegistry(trains TrainCreator, cache CacheInvalidator, log *zap.Logger) *TrainRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrainRegistry{trains: trains, cache: cache, log: log}
}

// CreateTrain registers a train with no bookings and returns its id.
// Empty source or destination, or totalSeats <= 0, yield
// repository.ErrInvalidRequest.
func (r *TrainRegistry) CreateTrain(ctx context.Context, source, destination string, totalSeats int) (uint64, error) {
	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)
	if source == "" || destination == "" || totalSeats <= 0 {
		return 0, repository.ErrInvalidRequest
	}
	id, err := r.trains.Create(ctx, source, destination, totalSeats)
	if err != nil {
		return 0, err
	}
	r.log.Info("train created",
		zap.Uint64("train_id", id),
		zap.String("source", source),
		zap.String("destination", destination),
		zap.Int("total_seats", totalSeats))
	if r.cache != nil {
		if err := r.cache.Invalidate(ctx); err != nil {
			r.log.Warn("availability cache not invalidated", zap.Error(err))
		}
	}
	return id, nil
}
