package ratelimit

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/log"
)

var (
	// ErrStopped is returned for requests submitted to, or still queued in,
	// a stopped limiter.
	ErrStopped = errors.New("ratelimit: limiter stopped")
	// ErrQueueFull is returned when the burst limit is reached.
	ErrQueueFull = errors.New("ratelimit: queue full")
)

// Config holds the admission caps for one limiter.
type Config struct {
	RequestsPerSecond int
	RequestsPerMinute int
	RequestsPerHour   int
	// BurstLimit bounds the number of queued requests. Zero means unbounded.
	BurstLimit int
	// InterRequestDelay is the fixed pause after each dispatched request so
	// callers cannot burst even while under capacity.
	InterRequestDelay time.Duration
}

const defaultInterRequestDelay = 200 * time.Millisecond

// window is one rolling admission counter. Counters are in-memory only and
// rebuilt on restart; the limiter is advisory, not an external SLA.
type window struct {
	cap      int
	duration time.Duration
	count    int
	resetAt  time.Time
}

func (w *window) maybeReset(now time.Time) {
	if !now.Before(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(w.duration)
	}
}

func (w *window) exhausted() bool {
	return w.cap > 0 && w.count >= w.cap
}

// request is one queued unit of work.
type request struct {
	priority int
	seq      uint64
	ctx      context.Context
	fn       func() error
	done     chan error
}

// requestQueue orders requests by priority (higher first), breaking ties by
// enqueue order so equal-priority callers are served FIFO.
type requestQueue []*request

func (q requestQueue) Len() int { return len(q) }

func (q requestQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q requestQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *requestQueue) Push(x any) { *q = append(*q, x.(*request)) }

func (q *requestQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Limiter serializes request dispatch behind second/minute/hour admission
// windows and a priority queue. One limiter is shared by every submission
// for an account profile.
type Limiter struct {
	mu         sync.Mutex
	queue      requestQueue
	windows    []*window
	delay      time.Duration
	burstLimit int
	seq        uint64
	wake       chan struct{}
	stop       chan struct{}
	stopped    bool
	wg         sync.WaitGroup
}

// New creates a limiter with the standard 1s/60s/3600s windows and starts
// its consumer loop.
func New(cfg Config) *Limiter {
	return newLimiter(cfg, []*window{
		{cap: cfg.RequestsPerSecond, duration: time.Second},
		{cap: cfg.RequestsPerMinute, duration: time.Minute},
		{cap: cfg.RequestsPerHour, duration: time.Hour},
	})
}

func newLimiter(cfg Config, windows []*window) *Limiter {
	delay := cfg.InterRequestDelay
	if delay <= 0 {
		delay = defaultInterRequestDelay
	}

	now := time.Now()
	for _, w := range windows {
		w.resetAt = now.Add(w.duration)
	}

	l := &Limiter{
		queue:   make(requestQueue, 0),
		windows: windows,
		delay:   delay,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	if cfg.BurstLimit > 0 {
		l.queue = make(requestQueue, 0, cfg.BurstLimit)
	}
	l.burstLimit = cfg.BurstLimit

	heap.Init(&l.queue)

	l.wg.Add(1)
	go l.run()

	return l
}

// Do enqueues fn at the given priority and blocks until it has been executed
// or ctx is cancelled. The returned error is fn's own error, a context
// error, ErrQueueFull or ErrStopped.
func (l *Limiter) Do(ctx context.Context, priority int, fn func() error) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	if l.burstLimit > 0 && l.queue.Len() >= l.burstLimit {
		l.mu.Unlock()
		return ErrQueueFull
	}

	req := &request{
		priority: priority,
		seq:      l.seq,
		ctx:      ctx,
		fn:       fn,
		done:     make(chan error, 1),
	}
	l.seq++
	heap.Push(&l.queue, req)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		// The consumer re-checks req.ctx before dispatch, so a cancelled
		// request is dropped instead of executed late.
		return ctx.Err()
	}
}

// Stop shuts the consumer down. Queued requests fail with ErrStopped; the
// request currently executing is allowed to finish.
func (l *Limiter) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.mu.Unlock()

	close(l.stop)
	l.wg.Wait()
}

// run is the single consumer loop. On each iteration it resets elapsed
// windows, dispatches the highest-priority request if every window has
// capacity, and otherwise sleeps until the nearest window resets.
func (l *Limiter) run() {
	defer l.wg.Done()

	for {
		l.mu.Lock()
		now := time.Now()
		for _, w := range l.windows {
			w.maybeReset(now)
		}

		if l.queue.Len() == 0 {
			l.mu.Unlock()
			select {
			case <-l.wake:
				continue
			case <-l.stop:
				l.drain()
				return
			}
		}

		if wait := l.capacityWait(now); wait > 0 {
			l.mu.Unlock()
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-l.stop:
				timer.Stop()
				l.drain()
				return
			}
			continue
		}

		req := heap.Pop(&l.queue).(*request)
		if req.ctx != nil && req.ctx.Err() != nil {
			l.mu.Unlock()
			req.done <- req.ctx.Err()
			continue
		}
		for _, w := range l.windows {
			w.count++
		}
		l.mu.Unlock()

		req.done <- req.fn()

		select {
		case <-time.After(l.delay):
		case <-l.stop:
			l.drain()
			return
		}
	}
}

// capacityWait returns how long to sleep before any window frees up, or zero
// when every window is under its cap. Caller holds l.mu.
func (l *Limiter) capacityWait(now time.Time) time.Duration {
	var wait time.Duration
	for _, w := range l.windows {
		if !w.exhausted() {
			continue
		}
		if until := w.resetAt.Sub(now); wait == 0 || until < wait {
			wait = until
		}
	}
	return wait
}

// drain fails every queued request after Stop.
func (l *Limiter) drain() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := l.queue.Len(); n > 0 {
		log.L.WithField("queued", n).Warn("rate limiter stopped with queued requests")
	}
	for l.queue.Len() > 0 {
		req := heap.Pop(&l.queue).(*request)
		req.done <- ErrStopped
	}
}
