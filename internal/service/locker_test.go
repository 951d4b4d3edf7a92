package service

import (
	"context"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerialisesSameKey(t *testing.T) {
	l := NewLocalLocker(8)
	var inside, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "train:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak)
}

func TestLocalLockerDistinctStripesDoNotBlock(t *testing.T) {
	const stripes = 16
	l := NewLocalLocker(stripes)
	a := "train:1"
	var b string
	for i := 2; ; i++ {
		b = "train:" + strconv.Itoa(i)
		if stripeForKey(b, stripes) != stripeForKey(a, stripes) {
			break
		}
	}

	unlockA, err := l.Lock(context.Background(), a)
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, b)
	require.NoError(t, err)
	unlockB()
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker(1)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStripeForKeyIsStable(t *testing.T) {
	for _, key := range []string{"", "train:1", "train:42"} {
		n := stripeForKey(key, 64)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 64)
		assert.Equal(t, n, stripeForKey(key, 64))
	}
}

// Runs only when REDIS_ADDR points at a reachable server.
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	prefix := "test-lock-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	l := NewRedisLocker(rdb, prefix, 200*time.Millisecond)

	unlock, err := l.Lock(ctx, "train:1")
	require.NoError(t, err)

	_, err = l.Lock(ctx, "train:1")
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	unlock()
	unlock2, err := l.Lock(ctx, "train:1")
	require.NoError(t, err)
	unlock2()
}
