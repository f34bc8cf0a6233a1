package infra

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// NewDefaultInspector returns the foreground inspector for this platform.
func NewDefaultInspector(runner CommandRunner, pm domain.ProcessManager) domain.ForegroundInspector {
	switch runtime.GOOS {
	case "darwin":
		return NewOsascriptInspector(runner)
	case "linux", "freebsd", "openbsd", "netbsd":
		return NewXpropInspector(runner, pm)
	default:
		return UnsupportedInspector{}
	}
}

// UnsupportedInspector always fails; the monitor skips every tick.
type UnsupportedInspector struct{}

func (UnsupportedInspector) CurrentForegroundApp(ctx context.Context) (domain.AppIdentity, error) {
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, runtime.GOOS)
}

// XpropInspector finds the active X11 window, reads its owning PID and
// resolves the PID to a process name.
type XpropInspector struct {
	runner         CommandRunner
	processManager domain.ProcessManager
}

// NewXpropInspector creates an X11 foreground inspector.
func NewXpropInspector(runner CommandRunner, pm domain.ProcessManager) *XpropInspector {
	return &XpropInspector{runner: runner, processManager: pm}
}

func (x *XpropInspector) CurrentForegroundApp(ctx context.Context) (domain.AppIdentity, error) {
	out, err := x.runner.Output(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW")
	if err != nil {
		return "", fmt.Errorf("xprop active window: %w", err)
	}
	windowID, err := parseActiveWindow(string(out))
	if err != nil {
		return "", err
	}

	out, err = x.runner.Output(ctx, "xprop", "-id", windowID, "_NET_WM_PID")
	if err != nil {
		return "", fmt.Errorf("xprop window pid: %w", err)
	}
	pid, err := parseWindowPID(string(out))
	if err != nil {
		return "", err
	}

	name, err := x.processManager.NameOf(pid)
	if err != nil {
		return "", fmt.Errorf("resolve pid %d: %w", pid, err)
	}
	return domain.AppIdentity(name), nil
}

// parseActiveWindow extracts the window id from
// "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3e00007".
func parseActiveWindow(out string) (string, error) {
	_, after, ok := strings.Cut(out, "#")
	if !ok {
		return "", fmt.Errorf("unexpected xprop output: %q", strings.TrimSpace(out))
	}
	fields := strings.Fields(strings.ReplaceAll(after, ",", " "))
	if len(fields) == 0 {
		return "", fmt.Errorf("unexpected xprop output: %q", strings.TrimSpace(out))
	}
	id := fields[0]
	if n, err := strconv.ParseUint(strings.TrimPrefix(id, "0x"), 16, 64); err != nil || n == 0 {
		return "", fmt.Errorf("no active window (%s)", id)
	}
	return id, nil
}

// parseWindowPID extracts the pid from "_NET_WM_PID(CARDINAL) = 12345".
func parseWindowPID(out string) (int, error) {
	_, after, ok := strings.Cut(out, "=")
	if !ok {
		return 0, fmt.Errorf("window has no pid: %q", strings.TrimSpace(out))
	}
	pid, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid window pid %q", strings.TrimSpace(after))
	}
	return pid, nil
}

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

// OsascriptInspector asks System Events for the frontmost application.
type OsascriptInspector struct {
	runner CommandRunner
}

// NewOsascriptInspector creates a macOS foreground inspector.
func NewOsascriptInspector(runner CommandRunner) *OsascriptInspector {
	return &OsascriptInspector{runner: runner}
}

func (o *OsascriptInspector) CurrentForegroundApp(ctx context.Context) (domain.AppIdentity, error) {
	out, err := o.runner.Output(ctx, "osascript", "-e", frontmostScript)
	if err != nil {
		return "", fmt.Errorf("osascript frontmost: %w", err)
	}
	return domain.AppIdentity(strings.TrimSpace(string(out))), nil
}

var (
	_ domain.ForegroundInspector = UnsupportedInspector{}
	_ domain.ForegroundInspector = (*XpropInspector)(nil)
	_ domain.ForegroundInspector = (*OsascriptInspector)(nil)
)
