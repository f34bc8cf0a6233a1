package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// DefaultCommandTimeout bounds each enforcement command.
const DefaultCommandTimeout = 5 * time.Second

// EnforcementCommands are argv lists run for each protection transition.
type EnforcementCommands struct {
	Pin            []string
	Unpin          []string
	BlockCapture   []string
	UnblockCapture []string
}

// Configured reports whether any command is set.
func (c EnforcementCommands) Configured() bool {
	return len(c.Pin) > 0 || len(c.Unpin) > 0 || len(c.BlockCapture) > 0 || len(c.UnblockCapture) > 0
}

// CommandHandle implements domain.EnforcementHandle by running host-provided
// commands (e.g. a kiosk-mode helper or a compositor CLI).
type CommandHandle struct {
	commands EnforcementCommands
	runner   CommandRunner
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCommandHandle creates a command-backed enforcement handle.
func NewCommandHandle(commands EnforcementCommands, runner CommandRunner, logger *zap.Logger) *CommandHandle {
	return &CommandHandle{
		commands: commands,
		runner:   runner,
		timeout:  DefaultCommandTimeout,
		logger:   logger,
	}
}

func (h *CommandHandle) SetPinned(pinned bool) error {
	if pinned {
		return h.run("pin", h.commands.Pin)
	}
	return h.run("unpin", h.commands.Unpin)
}

func (h *CommandHandle) SetCaptureBlocked(blocked bool) error {
	if blocked {
		return h.run("block_capture", h.commands.BlockCapture)
	}
	return h.run("unblock_capture", h.commands.UnblockCapture)
}

func (h *CommandHandle) run(action string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%s: %w", action, domain.ErrCommandNotConfigured)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.logger.Debug("running enforcement command",
		zap.String("action", action),
		zap.String("command", strings.Join(argv, " ")))

	if err := h.runner.Run(ctx, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("%s command failed: %w", action, err)
	}
	return nil
}

// Ensure CommandHandle implements domain.EnforcementHandle.
var _ domain.EnforcementHandle = (*CommandHandle)(nil)
