package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrTooSoon signals that a submission arrived inside the debounce window
// for its domain.
var ErrTooSoon = errors.New("a verification for this domain was just submitted")

type flight struct {
	token  uint64
	cancel context.CancelFunc
}

// Tracker enforces single-flight verification per domain. A new submission
// cancels the domain's in-flight run; submissions arriving inside the
// debounce window are rejected instead.
type Tracker struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	debounce time.Duration
	next     uint64
	inflight map[string]flight
	last     map[string]time.Time
}

func NewTracker(clock clockwork.Clock, debounce time.Duration) *Tracker {
	return &Tracker{
		clock:    clock,
		debounce: debounce,
		inflight: make(map[string]flight),
		last:     make(map[string]time.Time),
	}
}

// Begin registers a new run for the domain, cancelling any run already in
// flight. The returned context is detached from the caller's request context
// so the run survives the HTTP response. The token identifies this
// registration for Finish.
func (t *Tracker) Begin(domain string) (context.Context, uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if last, ok := t.last[domain]; ok && now.Sub(last) < t.debounce {
		return nil, 0, ErrTooSoon
	}

	if current, ok := t.inflight[domain]; ok {
		current.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.next++
	t.inflight[domain] = flight{token: t.next, cancel: cancel}
	t.last[domain] = now

	return ctx, t.next, nil
}

// Cancel stops the domain's in-flight run, if any.
func (t *Tracker) Cancel(domain string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current, ok := t.inflight[domain]; ok {
		current.cancel()
		delete(t.inflight, domain)
	}
}

// Finish releases the registration when it still belongs to the finished
// run. A run superseded by a newer submission leaves the newer registration
// untouched.
func (t *Tracker) Finish(domain string, token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current, ok := t.inflight[domain]; ok && current.token == token {
		current.cancel()
		delete(t.inflight, domain)
	}
}
