package usecase

import (
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/daemon"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// Operation names, as exposed to callers.
const (
	OpEnablePinning             = "enablePinning"
	OpDisablePinning            = "disablePinning"
	OpEnableScreenshotBlocking  = "enableScreenshotBlocking"
	OpDisableScreenshotBlocking = "disableScreenshotBlocking"
	OpEnableRecordingDetection  = "enableRecordingDetection"
	OpDisableRecordingDetection = "disableRecordingDetection"
	OpStartMonitoring           = "startMonitoring"
	OpStopMonitoring            = "stopMonitoring"
)

// Engine owns the protection controller and the switch monitor for one
// protected app. Create one per process at startup and call Shutdown on exit.
type Engine struct {
	protected  domain.AppIdentity
	protection *ProtectionController
	monitor    *daemon.SwitchMonitor
	logger     *zap.Logger

	mu       sync.Mutex
	shutdown bool
}

// NewEngine creates an engine with both protections off and monitoring idle.
func NewEngine(
	protected domain.AppIdentity,
	inspector domain.ForegroundInspector,
	sink domain.EventSink,
	monitorConfig daemon.MonitorConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		protected:  protected,
		protection: NewProtectionController(logger),
		monitor:    daemon.NewSwitchMonitor(monitorConfig, protected, inspector, sink, logger),
		logger:     logger,
	}
}

// AttachHandle supplies the OS handle used by protection operations.
func (e *Engine) AttachHandle(h domain.EnforcementHandle) {
	e.protection.SetHandle(h)
	e.logger.Debug("enforcement handle attached")
}

// DetachHandle unpins (best effort) and then drops the handle.
// Use when the protected surface is going away.
func (e *Engine) DetachHandle() {
	e.protection.DisablePinning()
	e.protection.SetHandle(nil)
	e.logger.Debug("enforcement handle detached")
}

// ReleaseHandle drops the handle without touching protections.
// Use when the surface is being recreated and will be re-attached.
func (e *Engine) ReleaseHandle() {
	e.protection.SetHandle(nil)
	e.logger.Debug("enforcement handle released")
}

func (e *Engine) EnablePinning() bool             { return e.protection.EnablePinning() }
func (e *Engine) DisablePinning() bool            { return e.protection.DisablePinning() }
func (e *Engine) EnableScreenshotBlocking() bool  { return e.protection.EnableScreenshotBlocking() }
func (e *Engine) DisableScreenshotBlocking() bool { return e.protection.DisableScreenshotBlocking() }
func (e *Engine) EnableRecordingDetection() bool  { return e.protection.EnableRecordingDetection() }
func (e *Engine) DisableRecordingDetection() bool { return e.protection.DisableRecordingDetection() }

// StartMonitoring starts the switch monitor. Returns false after Shutdown.
func (e *Engine) StartMonitoring() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		e.logger.Warn("cannot start monitoring after shutdown")
		return false
	}
	return e.monitor.Start()
}

// StopMonitoring stops the switch monitor. Always true.
func (e *Engine) StopMonitoring() bool {
	return e.monitor.Stop()
}

// ProtectionState returns a snapshot of the protection flags.
func (e *Engine) ProtectionState() domain.ProtectionState {
	return e.protection.State()
}

// MonitoringState returns the switch monitor state.
func (e *Engine) MonitoringState() domain.MonitoringState {
	return e.monitor.State()
}

// ProtectedApp returns the identity this engine protects.
func (e *Engine) ProtectedApp() domain.AppIdentity {
	return e.protected
}

// Arm runs the enable operations the profile asks for.
// Returns each operation's result keyed by operation name.
func (e *Engine) Arm(profile domain.Profile) map[string]bool {
	results := make(map[string]bool)

	if profile.Pinning {
		results[OpEnablePinning] = e.EnablePinning()
	}
	if profile.ScreenshotBlocking {
		results[OpEnableScreenshotBlocking] = e.EnableScreenshotBlocking()
	}
	if profile.RecordingDetection {
		results[OpEnableRecordingDetection] = e.EnableRecordingDetection()
	}
	if profile.Monitoring {
		results[OpStartMonitoring] = e.StartMonitoring()
	}

	e.logger.Info("profile armed", zap.String("profile", profile.ID), zap.Any("results", results))
	return results
}

// Disarm runs the disable operations matching the profile, in reverse order.
func (e *Engine) Disarm(profile domain.Profile) map[string]bool {
	results := make(map[string]bool)

	if profile.Monitoring {
		results[OpStopMonitoring] = e.StopMonitoring()
	}
	if profile.RecordingDetection {
		results[OpDisableRecordingDetection] = e.DisableRecordingDetection()
	}
	if profile.ScreenshotBlocking {
		results[OpDisableScreenshotBlocking] = e.DisableScreenshotBlocking()
	}
	if profile.Pinning {
		results[OpDisablePinning] = e.DisablePinning()
	}

	e.logger.Info("profile disarmed", zap.String("profile", profile.ID))
	return results
}

// Shutdown stops monitoring, unpins (best effort), drops the handle and
// resets protection state. Safe to call more than once.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return
	}
	e.shutdown = true
	e.mu.Unlock()

	e.monitor.Stop()
	e.protection.DisablePinning()
	e.protection.SetHandle(nil)
	e.protection.Reset()

	e.logger.Info("engine shut down")
}

// Ensure Engine satisfies the host's engine surface.
var _ daemon.ProtectionEngine = (*Engine)(nil)
