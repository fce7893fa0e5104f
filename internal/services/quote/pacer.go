package quote

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out sequential provider requests. The fetcher calls Wait
// between requests, never before the first one.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits a constant duration between requests.
type FixedDelay struct {
	Delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFixedDelay returns a pacer that sleeps d between requests.
func NewFixedDelay(d time.Duration) *FixedDelay {
	return &FixedDelay{Delay: d, sleep: sleepContext}
}

func (p *FixedDelay) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, p.Delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// LimiterPacer paces requests with a token bucket.
type LimiterPacer struct {
	limiter *rate.Limiter
}

// NewLimiterPacer allows requestsPerSecond with a burst of one.
func NewLimiterPacer(requestsPerSecond int) *LimiterPacer {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &LimiterPacer{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1)}
}

func (p *LimiterPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
