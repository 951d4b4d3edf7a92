package queue

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublishGivesUpAtContextDeadline(t *testing.T) {
	p := NewPublisher(silentBroker(t), zap.NewNop())
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.PublishBookingConfirmed(ctx, BookingConfirmedEvent{BookingID: 1, TrainID: 1})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStalledDialDoesNotSerialisePublishes(t *testing.T) {
	p := NewPublisher(silentBroker(t), zap.NewNop())
	defer p.Close()

	const publishes = 4
	var wg sync.WaitGroup
	errs := make([]error, publishes)
	start := time.Now()
	for i := 0; i < publishes; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			errs[i] = p.PublishBookingConfirmed(ctx, BookingConfirmedEvent{BookingID: uint64(i + 1), TrainID: uint64(i + 1)})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.Error(t, err)
	}
	// one-at-a-time dialing would need at least publishes*500ms
	assert.Less(t, time.Since(start), 1800*time.Millisecond)
}
