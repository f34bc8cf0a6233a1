package infra

import (
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// ProcessManagerImpl resolves process names through gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// NameOf returns the executable name of pid, as shown by the OS.
func (pm *ProcessManagerImpl) NameOf(pid int) (string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", fmt.Errorf("lookup pid %d: %w", pid, err)
	}
	name, err := p.Name()
	if err != nil {
		return "", fmt.Errorf("name of pid %d: %w", pid, err)
	}
	return name, nil
}

// FindByName returns PIDs whose name contains pattern, ignoring case.
// The calling process is never included.
func (pm *ProcessManagerImpl) FindByName(pattern string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	self := int32(os.Getpid())
	want := strings.ToLower(pattern)

	var pids []int
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.Name()
		if err != nil {
			continue // exited between listing and lookup
		}
		if strings.Contains(strings.ToLower(name), want) {
			pids = append(pids, int(p.Pid))
		}
	}
	return pids, nil
}

var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
