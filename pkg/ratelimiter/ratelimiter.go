package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	recipientWindow = 7 * 24 * time.Hour
	globalWindow    = 24 * time.Hour
)

// Policy defines the send caps enforced by the limiter.
type Policy struct {
	PerRecipientWeek int
	GlobalDay        int

	// Warmup ramps the effective daily cap from GlobalDay down to a lower
	// starting point, reaching GlobalDay*Factor after Days days. Disabled
	// when Days is zero.
	WarmupDays    int
	WarmupFactor  float64
	WarmupStartAt time.Time
}

// Decision is the outcome of a reservation attempt.
type Decision struct {
	Allowed    bool
	Scope      string // "recipient" or "global" when blocked
	RetryAfter time.Duration
}

// SendLimiter enforces the per-recipient weekly and global daily send
// windows on top of a shared CounterStore. Reservations are taken before a
// send and released if the send fails, so the counters track actual sends.
type SendLimiter struct {
	store  CounterStore
	policy Policy
	now    func() time.Time
}

func NewSendLimiter(store CounterStore, policy Policy) *SendLimiter {
	return &SendLimiter{store: store, policy: policy, now: time.Now}
}

// recipientKey buckets sends into fixed 7-day windows.
func recipientKey(recipient string, now time.Time) (string, time.Time) {
	bucket := now.Unix() / int64(recipientWindow/time.Second)
	end := time.Unix((bucket+1)*int64(recipientWindow/time.Second), 0)
	return fmt.Sprintf("send:rcpt:%s:%d", recipient, bucket), end
}

// globalKey buckets sends into UTC calendar days.
func globalKey(now time.Time) (string, time.Time) {
	day := now.UTC().Format("2006-01-02")
	end := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return "send:global:" + day, end
}

// EffectiveGlobalCap returns today's global cap, accounting for warmup.
func (l *SendLimiter) EffectiveGlobalCap(now time.Time) int {
	cap := l.policy.GlobalDay
	if l.policy.WarmupDays <= 0 || l.policy.WarmupStartAt.IsZero() {
		return cap
	}

	elapsed := int(now.Sub(l.policy.WarmupStartAt).Hours() / 24)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= l.policy.WarmupDays {
		return int(math.Round(float64(cap) * l.policy.WarmupFactor))
	}

	target := float64(cap) * l.policy.WarmupFactor
	ramped := float64(cap) + (target-float64(cap))*float64(elapsed)/float64(l.policy.WarmupDays)
	capped := int(math.Floor(ramped))
	if capped < 1 {
		capped = 1
	}
	return capped
}

// Reserve takes one send slot for the recipient. When blocked, the decision
// carries the time until the earliest slot opens. A successful reservation
// must be released with Release if the send does not happen.
func (l *SendLimiter) Reserve(ctx context.Context, recipient string) (Decision, error) {
	now := l.now()

	rKey, rEnd := recipientKey(recipient, now)
	count, err := l.store.Increment(ctx, rKey, recipientWindow)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment recipient counter: %w", err)
	}
	if count > int64(l.policy.PerRecipientWeek) {
		if err := l.store.Decrement(ctx, rKey); err != nil {
			return Decision{}, err
		}
		return Decision{Allowed: false, Scope: "recipient", RetryAfter: rEnd.Sub(now)}, nil
	}

	gKey, gEnd := globalKey(now)
	count, err = l.store.Increment(ctx, gKey, globalWindow)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment global counter: %w", err)
	}
	if count > int64(l.EffectiveGlobalCap(now)) {
		if err := l.store.Decrement(ctx, gKey); err != nil {
			return Decision{}, err
		}
		if err := l.store.Decrement(ctx, rKey); err != nil {
			return Decision{}, err
		}
		return Decision{Allowed: false, Scope: "global", RetryAfter: gEnd.Sub(now.UTC())}, nil
	}

	return Decision{Allowed: true}, nil
}

// GlobalOpen reports whether the global daily window still has room, without
// consuming a slot. Used by gate checks that must not reserve anything.
func (l *SendLimiter) GlobalOpen(ctx context.Context) (bool, error) {
	now := l.now()
	gKey, _ := globalKey(now)
	count, err := l.store.Get(ctx, gKey)
	if err != nil {
		return false, fmt.Errorf("failed to read global counter: %w", err)
	}
	return count < int64(l.EffectiveGlobalCap(now)), nil
}

// Release returns a reserved slot after a failed send.
func (l *SendLimiter) Release(ctx context.Context, recipient string) error {
	now := l.now()
	rKey, _ := recipientKey(recipient, now)
	gKey, _ := globalKey(now)
	if err := l.store.Decrement(ctx, gKey); err != nil {
		return err
	}
	return l.store.Decrement(ctx, rKey)
}
