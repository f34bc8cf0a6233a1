package infra

import (
	"os"
	"path/filepath"
)

// ExecMode represents the execution mode of the application.
type ExecMode string

const (
	// ExecModeUser runs as a regular user with per-user data
	ExecModeUser ExecMode = "user"
	// ExecModeSystem runs as root with system-wide data
	ExecModeSystem ExecMode = "system"
)

// ExecModeConfig holds paths based on execution mode.
type ExecModeConfig struct {
	Mode    ExecMode
	DataDir string // Where the journal, its key and the log live
	LogPath string // JSON log file
	IsRoot  bool
}

// DetectExecMode determines the execution mode based on effective UID.
func DetectExecMode() *ExecModeConfig {
	if os.Geteuid() == 0 {
		return newExecModeConfig(ExecModeSystem, "/var/lib/anticheat", true)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return newExecModeConfig(ExecModeUser, filepath.Join(home, ".anticheat"), false)
}

// ExecModeForDataDir returns paths rooted at an explicit data directory.
func ExecModeForDataDir(dataDir string) *ExecModeConfig {
	mode := ExecModeUser
	if os.Geteuid() == 0 {
		mode = ExecModeSystem
	}
	return newExecModeConfig(mode, dataDir, mode == ExecModeSystem)
}

func newExecModeConfig(mode ExecMode, dataDir string, isRoot bool) *ExecModeConfig {
	return &ExecModeConfig{
		Mode:    mode,
		DataDir: dataDir,
		LogPath: filepath.Join(dataDir, "anticheat.log"),
		IsRoot:  isRoot,
	}
}

// String returns a human-readable description of the mode.
func (m ExecMode) String() string {
	switch m {
	case ExecModeSystem:
		return "system (root)"
	case ExecModeUser:
		return "user (non-root)"
	default:
		return "unknown"
	}
}
