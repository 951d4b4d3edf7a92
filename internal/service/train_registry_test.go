package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/testutil"
)

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func TestCreateTrainThenListAndBook(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	cache := &countingCache{}
	reg := NewTrainRegistry(repository.NewTrainRepo(db), cache, nil)
	avail := NewAvailability(repository.NewTrainRepo(db))
	ctx := context.Background()

	id, err := reg.CreateTrain(ctx, "  Pune ", "Mumbai", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)

	remaining, err := avail.RemainingSeats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)

	list, err := avail.ListBySegment(ctx, "Pune", " Mumbai")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].TrainID)
	assert.Equal(t, 10, list[0].AvailableSeats)

	user := testutil.InsertUser(t, db, "alice", model.RoleUser)
	m := newStoreManager(t, db, nil)
	_, err = m.BookSeats(ctx, user, id, 3)
	require.NoError(t, err)

	list, err = avail.ListBySegment(ctx, "Pune", "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, 7, list[0].AvailableSeats)

	empty, err := avail.ListBySegment(ctx, "Mumbai", "Pune")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCreateTrainValidation(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	reg := NewTrainRegistry(repository.NewTrainRepo(db), nil, nil)
	ctx := context.Background()

	cases := []struct {
		src, dst string
		seats    int
	}{
		{"A", "B", 0},
		{"A", "B", -1},
		{" ", "B", 5},
		{"A", "", 5},
	}
	for _, tc := range cases {
		_, err := reg.CreateTrain(ctx, tc.src, tc.dst, tc.seats)
		assert.ErrorIs(t, err, repository.ErrInvalidRequest, "%+v", tc)
	}
}

func TestCreateTrainSurvivesCacheFailure(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	reg := NewTrainRegistry(repository.NewTrainRepo(db), &countingCache{err: errors.New("redis down")}, nil)

	id, err := reg.CreateTrain(context.Background(), "A", "B", 5)
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestRemainingSeatsUnknownTrain(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	_, err := NewAvailability(repository.NewTrainRepo(db)).RemainingSeats(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
