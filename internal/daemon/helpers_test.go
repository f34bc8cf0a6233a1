package daemon

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// fakeTicker is a Ticker driven by the test.
type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// tickerFactory counts ticker allocations.
type tickerFactory struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *tickerFactory) New(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *tickerFactory) Last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

// fire delivers one tick; the send completes once the loop has taken it,
// which also means the previous check has finished.
func fire(t *testing.T, ft *fakeTicker) {
	t.Helper()
	select {
	case ft.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("monitor loop did not accept tick")
	}
}

// fakeClock returns a settable time, in milliseconds from a fixed epoch.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newFakeClock(ms int64) *fakeClock {
	return &fakeClock{now: epoch.Add(time.Duration(ms) * time.Millisecond)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = epoch.Add(time.Duration(ms) * time.Millisecond)
}

type inspectResult struct {
	app domain.AppIdentity
	err error
}

// scriptedInspector returns results in order, then the fallback.
type scriptedInspector struct {
	mu       sync.Mutex
	results  []inspectResult
	fallback inspectResult
	calls    int
	block    chan struct{} // when set, every call waits for it to close
}

func (s *scriptedInspector) CurrentForegroundApp(ctx context.Context) (domain.AppIdentity, error) {
	s.mu.Lock()
	r := s.fallback
	if s.calls < len(s.results) {
		r = s.results[s.calls]
	}
	s.calls++
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return r.app, r.err
}

func (s *scriptedInspector) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingSink stores delivered events.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.SwitchEvent
}

func (r *recordingSink) OnAppSwitch(event domain.SwitchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) Events() []domain.SwitchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SwitchEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordingSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func durations(events []domain.SwitchEvent) []int64 {
	out := make([]int64, len(events))
	for i, e := range events {
		out[i] = e.DurationMs
	}
	return out
}
