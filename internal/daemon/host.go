package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// ProtectionEngine is the engine surface the host drives.
type ProtectionEngine interface {
	Arm(profile domain.Profile) map[string]bool
	Disarm(profile domain.Profile) map[string]bool
	ProtectionState() domain.ProtectionState
	MonitoringState() domain.MonitoringState
	Shutdown()
}

// HostConfig holds host loop configuration.
type HostConfig struct {
	StatusInterval time.Duration // How often to log protection status
}

// DefaultHostConfig returns default host configuration.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		StatusInterval: 60 * time.Second,
	}
}

// Host keeps an engine armed with a profile until its context is canceled,
// then disarms and shuts the engine down.
type Host struct {
	config  HostConfig
	engine  ProtectionEngine
	profile domain.Profile
	logger  *zap.Logger
}

// NewHost creates a new host for the given engine and profile.
func NewHost(config HostConfig, engine ProtectionEngine, profile domain.Profile, logger *zap.Logger) *Host {
	return &Host{
		config:  config,
		engine:  engine,
		profile: profile,
		logger:  logger,
	}
}

// Run arms the profile and blocks until ctx is canceled.
func (h *Host) Run(ctx context.Context) error {
	results := h.engine.Arm(h.profile)
	for op, ok := range results {
		if !ok {
			h.logger.Warn("protection not armed",
				zap.String("profile", h.profile.ID),
				zap.String("operation", op))
		}
	}

	h.logger.Info("host started",
		zap.String("profile", h.profile.ID),
		zap.Int("operations", len(results)))
	h.logStatus()

	statusTicker := time.NewTicker(h.config.StatusInterval)
	defer statusTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("host stopping")
			h.engine.Disarm(h.profile)
			h.engine.Shutdown()
			return ctx.Err()

		case <-statusTicker.C:
			h.logStatus()
		}
	}
}

func (h *Host) logStatus() {
	state := h.engine.ProtectionState()
	h.logger.Info("protection status",
		zap.Bool("screen_pinned", state.ScreenPinned),
		zap.Bool("screenshot_blocked", state.ScreenshotBlocked),
		zap.String("monitoring", string(h.engine.MonitoringState())))
}
