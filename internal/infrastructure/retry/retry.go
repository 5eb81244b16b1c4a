// Package retry retries dial-time operations against the audit store and the
// result cache when they fail with transient network errors.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"syscall"
	"time"
)

// Strategy selects how the delay grows between attempts.
type Strategy string

const (
	StrategyNone        Strategy = "none"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
)

// Policy bounds a retry loop.
type Policy struct {
	Attempts     int
	Strategy     Strategy
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultPolicy is used when dialing backing services at startup.
var DefaultPolicy = Policy{
	Attempts:     4,
	Strategy:     StrategyExponential,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     4 * time.Second,
}

// Delay returns the wait before retry number attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	var d time.Duration
	switch p.Strategy {
	case StrategyLinear:
		d = time.Duration(attempt) * p.InitialDelay
	case StrategyExponential:
		if attempt > 62 {
			return p.MaxDelay
		}
		d = time.Duration(1<<attempt) * p.InitialDelay
	default:
		d = p.InitialDelay
	}
	if p.MaxDelay > 0 && (d > p.MaxDelay || d < 0) {
		return p.MaxDelay
	}
	return d
}

// IsTransient reports whether err is worth retrying. Context errors never are.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return true
	}
	return false
}

// Do runs fn until it succeeds, returns a non-transient error, the attempts
// are used up or ctx is done.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	attempts := max(p.Attempts, 1)

	var (
		out T
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err = fn(ctx)
		if err == nil || !IsTransient(err) || attempt == attempts {
			return out, err
		}

		delay := p.Delay(attempt)
		if logger != nil {
			logger.WarnContext(ctx, "transient failure, retrying",
				"op", op, "attempt", attempt, "delay", delay, "error", err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return out, err
}
