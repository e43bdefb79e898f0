package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter builds a limiter with shrunken windows so the hour-scale
// behavior can be exercised in milliseconds.
func newTestLimiter(cap int, windowDur time.Duration, delay time.Duration) *Limiter {
	return newLimiter(
		Config{InterRequestDelay: delay},
		[]*window{
			{cap: cap, duration: windowDur},
			{cap: cap * 100, duration: time.Minute},
		},
	)
}

func TestLimiterDispatchesAllRequests(t *testing.T) {
	l := newTestLimiter(100, time.Second, time.Millisecond)
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	executed := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), 0, func() error {
				mu.Lock()
				executed++
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, 20, executed)
}

func TestLimiterWindowBound(t *testing.T) {
	// 2 requests per 100ms window: 7 requests need at least 4 windows.
	l := newTestLimiter(2, 100*time.Millisecond, time.Millisecond)
	defer l.Stop()

	start := time.Now()
	var wg sync.WaitGroup
	var mu sync.Mutex
	var timestamps []time.Time

	for i := 0; i < 7; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), 0, func() error {
				mu.Lock()
				timestamps = append(timestamps, time.Now())
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	require.Len(t, timestamps, 7)
	// 2 at t0, 2 after the first reset, 2 after the second, 1 after the
	// third: the run cannot finish before ~300ms.
	assert.GreaterOrEqual(t, elapsed, 290*time.Millisecond,
		"7 requests at 2/100ms finished too fast: %s", elapsed)
}

func TestLimiterInterRequestDelay(t *testing.T) {
	l := newTestLimiter(100, time.Second, 30*time.Millisecond)
	defer l.Stop()

	var mu sync.Mutex
	var timestamps []time.Time
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), 0, func() error {
				mu.Lock()
				timestamps = append(timestamps, time.Now())
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	require.Len(t, timestamps, 4)
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		assert.GreaterOrEqual(t, gap, 25*time.Millisecond,
			"dispatch %d followed %d after only %s", i, i-1, gap)
	}
}

func TestLimiterPriorityOrder(t *testing.T) {
	l := newTestLimiter(100, time.Second, time.Millisecond)
	defer l.Stop()

	block := make(chan struct{})
	started := make(chan struct{})

	// Occupy the consumer so later submissions queue up.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Do(context.Background(), 0, func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	var mu sync.Mutex
	var order []string
	run := func(name string) func() error {
		return func() error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	enqueue := func(priority int, name string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), priority, run(name))
		}()
		// Give the goroutine time to enqueue before the next one.
		time.Sleep(20 * time.Millisecond)
	}

	enqueue(25, "low")
	enqueue(100, "critical")
	enqueue(50, "medium-a")
	enqueue(50, "medium-b")

	close(block)
	wg.Wait()

	assert.Equal(t, []string{"critical", "medium-a", "medium-b", "low"}, order)
}

func TestLimiterQueueFull(t *testing.T) {
	l := newLimiter(
		Config{BurstLimit: 1, InterRequestDelay: time.Millisecond},
		[]*window{{cap: 100, duration: time.Second}},
	)
	defer l.Stop()

	block := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Do(context.Background(), 0, func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	queued := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		queued <- l.Do(context.Background(), 0, func() error { return nil })
	}()
	time.Sleep(20 * time.Millisecond)

	err := l.Do(context.Background(), 0, func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueFull)

	close(block)
	wg.Wait()
	assert.NoError(t, <-queued)
}

func TestLimiterContextCancelled(t *testing.T) {
	l := newTestLimiter(100, time.Second, time.Millisecond)
	defer l.Stop()

	block := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Do(context.Background(), 0, func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := l.Do(ctx, 0, func() error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(block)
	wg.Wait()
	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran, "cancelled request must not execute")
}

func TestLimiterStopFailsQueued(t *testing.T) {
	l := newTestLimiter(100, time.Second, time.Millisecond)

	block := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Do(context.Background(), 0, func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	queued := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		queued <- l.Do(context.Background(), 0, func() error { return nil })
	}()
	time.Sleep(20 * time.Millisecond)

	close(block)
	l.Stop()
	wg.Wait()

	err := <-queued
	if err != nil {
		assert.ErrorIs(t, err, ErrStopped)
	}

	assert.ErrorIs(t, l.Do(context.Background(), 0, func() error { return nil }), ErrStopped)
}

func TestRegistrySharesLimiterPerProfile(t *testing.T) {
	r := NewRegistry(Config{
		RequestsPerSecond: 5,
		RequestsPerMinute: 100,
		RequestsPerHour:   1000,
		InterRequestDelay: time.Millisecond,
	})
	defer r.Stop()

	a := r.For("profile-a")
	b := r.For("profile-b")

	assert.Same(t, a, r.For("profile-a"))
	assert.NotSame(t, a, b)
}
