// Package daemon implements the switch monitor and the long-running host loop.
package daemon

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// DefaultPollInterval is how often the foreground app is sampled.
const DefaultPollInterval = 1000 * time.Millisecond

// Ticker is the subset of time.Ticker the monitor needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc allocates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// MonitorConfig holds switch monitor configuration.
type MonitorConfig struct {
	PollInterval time.Duration    // How often to check the foreground app (default 1s)
	Now          func() time.Time // Clock used for session durations
	NewTicker    TickerFunc       // Ticker factory
}

// DefaultMonitorConfig returns default monitor configuration.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PollInterval: DefaultPollInterval,
		Now:          time.Now,
		NewTicker:    NewTimeTicker,
	}
}

// SwitchMonitor polls the foreground app and emits a SwitchEvent on every
// tick where the protected app is not in front.
//
// Each Start begins a new generation. A tick only emits if its generation is
// still current, so a tick racing with Stop is dropped rather than reported.
type SwitchMonitor struct {
	config    MonitorConfig
	protected domain.AppIdentity
	inspector domain.ForegroundInspector
	sink      domain.EventSink
	logger    *zap.Logger

	mu         sync.Mutex
	running    bool
	generation uint64
	ticker     Ticker
	cancel     context.CancelFunc
	dispatcher *dispatcher
	lastSwitch time.Time // zero until the first detected switch; kept across restarts
}

// NewSwitchMonitor creates a new switch monitor for the protected app.
func NewSwitchMonitor(
	config MonitorConfig,
	protected domain.AppIdentity,
	inspector domain.ForegroundInspector,
	sink domain.EventSink,
	logger *zap.Logger,
) *SwitchMonitor {
	defaults := DefaultMonitorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.Now == nil {
		config.Now = defaults.Now
	}
	if config.NewTicker == nil {
		config.NewTicker = defaults.NewTicker
	}

	return &SwitchMonitor{
		config:    config,
		protected: protected,
		inspector: inspector,
		sink:      sink,
		logger:    logger,
	}
}

// Start begins polling. Starting a running monitor is a no-op that succeeds.
// Returns false only when no inspector is configured.
func (m *SwitchMonitor) Start() bool {
	if m.inspector == nil {
		m.logger.Warn("cannot start monitoring", zap.Error(domain.ErrInspectorUnavailable))
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.logger.Debug("monitoring already running")
		return true
	}

	m.generation++
	gen := m.generation
	ctx, cancel := context.WithCancel(context.Background())
	ticker := m.config.NewTicker(m.config.PollInterval)

	m.ticker = ticker
	m.cancel = cancel
	m.dispatcher = newDispatcher(m.sink, m.logger)
	m.running = true

	go m.loop(ctx, gen, ticker)

	m.logger.Info("monitoring started",
		zap.String("protected_app", string(m.protected)),
		zap.Duration("interval", m.config.PollInterval),
		zap.Uint64("generation", gen))
	return true
}

// Stop cancels polling. Once Stop returns no further events reach the sink.
// Stopping an idle monitor is a no-op that succeeds.
func (m *SwitchMonitor) Stop() bool {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return true
	}

	m.running = false
	m.generation++
	m.ticker.Stop()
	m.cancel()
	d := m.dispatcher
	m.ticker = nil
	m.cancel = nil
	m.dispatcher = nil
	m.mu.Unlock()

	d.Close()

	m.logger.Info("monitoring stopped")
	return true
}

// State returns whether the monitor is running.
func (m *SwitchMonitor) State() domain.MonitoringState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return domain.MonitoringRunning
	}
	return domain.MonitoringIdle
}

// LastSwitch returns the time of the last detected switch, if any.
func (m *SwitchMonitor) LastSwitch() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSwitch, !m.lastSwitch.IsZero()
}

// loop fires once immediately, then on every tick until ctx is canceled.
func (m *SwitchMonitor) loop(ctx context.Context, gen uint64, ticker Ticker) {
	m.check(ctx, gen)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			m.check(ctx, gen)
		}
	}
}

// check runs a single detection pass.
func (m *SwitchMonitor) check(ctx context.Context, gen uint64) {
	if ctx.Err() != nil {
		return
	}

	app, err := m.inspector.CurrentForegroundApp(ctx)
	if err != nil {
		m.logger.Debug("foreground inspection failed, skipping tick", zap.Error(err))
		return
	}

	if m.isProtected(app) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || gen != m.generation {
		return
	}

	now := m.config.Now()
	var durationMs int64
	if !m.lastSwitch.IsZero() {
		if d := now.Sub(m.lastSwitch).Milliseconds(); d > 0 {
			durationMs = d
		}
	}
	m.lastSwitch = now

	name := strings.TrimSpace(string(app))
	if name == "" {
		name = domain.UnknownAppName
	}

	m.logger.Info("app switch detected",
		zap.String("app_name", name),
		zap.Int64("duration_ms", durationMs))

	m.dispatcher.Enqueue(domain.SwitchEvent{
		AppName:    name,
		DurationMs: durationMs,
		DetectedAt: now,
	})
}

func (m *SwitchMonitor) isProtected(app domain.AppIdentity) bool {
	return strings.EqualFold(strings.TrimSpace(string(app)), string(m.protected))
}
