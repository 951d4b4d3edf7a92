package service

import (
	"context"
	"hash/fnv"
)

// Locker serialises work on a key.  Lock blocks until the key is held
// or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LocalLocker serialises keys within one process.  Keys are spread over a
// fixed number of stripes by FNV hash, so two keys may share a stripe but
// a key always maps to the same one.
type LocalLocker struct {
	stripes []chan struct{}
}

// NewLocalLocker returns a LocalLocker with n stripes (at least 1).
func NewLocalLocker(n int) *LocalLocker {
	if n < 1 {
		n = 1
	}
	l := &LocalLocker{stripes: make([]chan struct{}, n)}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock acquires the stripe of key.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.stripes[stripeForKey(key, len(l.stripes))]
	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func stripeForKey(key string, stripes int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(stripes))
}
