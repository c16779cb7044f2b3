package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type RateLimiter interface {
	Wait(ctx context.Context) error
}

// PageLimiter paces page fetches: a jittered delay between consecutive
// pages, plus a long pause after every blockSize pages. SteamDB rate
// limits aggressively, so the pacing is deliberately slow.
type PageLimiter struct {
	mu         sync.Mutex
	minDelay   time.Duration
	maxDelay   time.Duration
	blockSize  int
	blockPause time.Duration
	count      int
	lastAction time.Time
}

// New returns a limiter with jittered delays in [minDelay, maxDelay].
// blockSize <= 0 disables the long pause.
func New(minDelay, maxDelay time.Duration, blockSize int, blockPause time.Duration) *PageLimiter {
	return &PageLimiter{
		minDelay:   minDelay,
		maxDelay:   maxDelay,
		blockSize:  blockSize,
		blockPause: blockPause,
	}
}

func (l *PageLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delay := l.nextDelay()
	if elapsed := time.Since(l.lastAction); elapsed < delay {
		if err := sleep(ctx, delay-elapsed); err != nil {
			return err
		}
	}

	l.count++
	if l.blockSize > 0 && l.count%l.blockSize == 0 {
		if err := sleep(ctx, l.blockPause); err != nil {
			return err
		}
	}

	l.lastAction = time.Now()
	return nil
}

// Pages returns how many waits have completed.
func (l *PageLimiter) Pages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

func (l *PageLimiter) nextDelay() time.Duration {
	if l.maxDelay <= l.minDelay {
		return l.minDelay
	}
	jitter := time.Duration(rand.Int63n(int64(l.maxDelay - l.minDelay)))
	return l.minDelay + jitter
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
