// Package usecase contains application business logic.
package usecase

import (
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// ProtectionController toggles screen pinning and capture blocking against
// an enforcement handle. Enables fail soft (false, state unchanged); disables
// always report success so teardown cannot be blocked.
type ProtectionController struct {
	mu     sync.Mutex
	handle domain.EnforcementHandle
	state  domain.ProtectionState
	logger *zap.Logger
}

// NewProtectionController creates a controller with no handle attached.
func NewProtectionController(logger *zap.Logger) *ProtectionController {
	return &ProtectionController{logger: logger}
}

// SetHandle attaches (or with nil, drops) the enforcement handle.
func (c *ProtectionController) SetHandle(h domain.EnforcementHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = h
}

// HasHandle reports whether an enforcement handle is attached.
func (c *ProtectionController) HasHandle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

// State returns a snapshot of the protection flags.
func (c *ProtectionController) State() domain.ProtectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset clears both flags without touching the OS.
func (c *ProtectionController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.ProtectionState{}
}

func (c *ProtectionController) EnablePinning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		c.logger.Warn("cannot enable pinning", zap.Error(domain.ErrHandleUnavailable))
		return false
	}

	if err := c.handle.SetPinned(true); err != nil {
		c.logger.Warn("failed to enable pinning", zap.Error(err))
		return false
	}

	c.state.ScreenPinned = true
	c.logger.Info("screen pinning enabled")
	return true
}

// DisablePinning unpins if pinned. The flag is cleared only when the unpin
// call succeeds, but the result is always true.
func (c *ProtectionController) DisablePinning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.ScreenPinned || c.handle == nil {
		return true
	}

	if err := c.handle.SetPinned(false); err != nil {
		c.logger.Warn("failed to disable pinning", zap.Error(err))
		return true
	}

	c.state.ScreenPinned = false
	c.logger.Info("screen pinning disabled")
	return true
}

func (c *ProtectionController) EnableScreenshotBlocking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		c.logger.Warn("cannot enable screenshot blocking", zap.Error(domain.ErrHandleUnavailable))
		return false
	}

	if err := c.handle.SetCaptureBlocked(true); err != nil {
		c.logger.Warn("failed to enable screenshot blocking", zap.Error(err))
		return false
	}

	c.state.ScreenshotBlocked = true
	c.logger.Info("screenshot blocking enabled")
	return true
}

// DisableScreenshotBlocking clears the capture-block flag. The clear call is
// idempotent so it is issued even when the flag is already unset.
func (c *ProtectionController) DisableScreenshotBlocking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return true
	}

	if err := c.handle.SetCaptureBlocked(false); err != nil {
		c.logger.Warn("failed to disable screenshot blocking", zap.Error(err))
		return true
	}

	c.state.ScreenshotBlocked = false
	c.logger.Info("screenshot blocking disabled")
	return true
}

// EnableRecordingDetection approximates recording detection with a capture
// block; live recording cannot be told apart from other capture here.
func (c *ProtectionController) EnableRecordingDetection() bool {
	return c.EnableScreenshotBlocking()
}

func (c *ProtectionController) DisableRecordingDetection() bool {
	return c.DisableScreenshotBlocking()
}
