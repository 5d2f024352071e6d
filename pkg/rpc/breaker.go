package rpc

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

type breakerState struct {
	failures  int
	openUntil time.Time
}

// breaker tracks consecutive failures per endpoint. After threshold failures the endpoint is
// skipped until cooldown has passed; the next call then probes it again.
type breaker struct {
	threshold int
	cooldown  time.Duration
	states    *xsync.Map[string, breakerState]
	now       func() time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	return &breaker{
		threshold: threshold,
		cooldown:  cooldown,
		states:    xsync.NewMap[string, breakerState](),
		now:       time.Now,
	}
}

func (b *breaker) allow(ep string) bool {
	st, ok := b.states.Load(ep)
	if !ok || st.openUntil.IsZero() {
		return true
	}
	if b.now().Before(st.openUntil) {
		return false
	}
	// half-open: forget the history, one more failure counts from scratch
	b.states.Delete(ep)
	return true
}

func (b *breaker) failure(ep string) {
	b.states.Compute(ep, func(st breakerState, _ bool) (breakerState, xsync.ComputeOp) {
		st.failures++
		if st.failures >= b.threshold {
			st.openUntil = b.now().Add(b.cooldown)
		}
		return st, xsync.UpdateOp
	})
}

func (b *breaker) success(ep string) {
	b.states.Delete(ep)
}
