package infra

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// mockCommandRunner is a test double for CommandRunner.
// Outputs and errors are keyed by the full command line.
type mockCommandRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	errors  map[string]error
	calls   []string
}

func newMockCommandRunner() *mockCommandRunner {
	return &mockCommandRunner{
		outputs: make(map[string]string),
		errors:  make(map[string]error),
	}
}

func (m *mockCommandRunner) On(cmdline, output string) *mockCommandRunner {
	m.outputs[cmdline] = output
	return m
}

func (m *mockCommandRunner) Fail(cmdline string, err error) *mockCommandRunner {
	m.errors[cmdline] = err
	return m
}

func (m *mockCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := m.Output(ctx, name, args...)
	return err
}

func (m *mockCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmdline := strings.Join(append([]string{name}, args...), " ")
	m.calls = append(m.calls, cmdline)
	if err, ok := m.errors[cmdline]; ok {
		return nil, err
	}
	return []byte(m.outputs[cmdline]), nil
}

func (m *mockCommandRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockProcessManager is a test double for domain.ProcessManager
type mockProcessManager struct {
	names map[int]string
}

func newMockProcessManager() *mockProcessManager {
	return &mockProcessManager{names: make(map[int]string)}
}

func (m *mockProcessManager) NameOf(pid int) (string, error) {
	name, ok := m.names[pid]
	if !ok {
		return "", fmt.Errorf("process %d not found", pid)
	}
	return name, nil
}

func (m *mockProcessManager) FindByName(pattern string) ([]int, error) {
	var pids []int
	for pid, name := range m.names {
		if strings.EqualFold(name, pattern) {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

func (m *mockProcessManager) SetName(pid int, name string) {
	m.names[pid] = name
}

var (
	_ CommandRunner         = (*mockCommandRunner)(nil)
	_ domain.ProcessManager = (*mockProcessManager)(nil)
)
