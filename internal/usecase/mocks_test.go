package usecase

import (
	"context"
	"sync"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// mockHandle implements domain.EnforcementHandle for testing
type mockHandle struct {
	mu         sync.Mutex
	pinErr     error
	unpinErr   error
	captureErr error
	pinCalls   []bool
	blockCalls []bool
}

func (m *mockHandle) SetPinned(pinned bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinCalls = append(m.pinCalls, pinned)
	if pinned {
		return m.pinErr
	}
	return m.unpinErr
}

func (m *mockHandle) SetCaptureBlocked(blocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockCalls = append(m.blockCalls, blocked)
	return m.captureErr
}

func (m *mockHandle) PinCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.pinCalls...)
}

func (m *mockHandle) BlockCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.blockCalls...)
}

// staticInspector always reports the same foreground app
type staticInspector struct {
	app domain.AppIdentity
}

func (s staticInspector) CurrentForegroundApp(ctx context.Context) (domain.AppIdentity, error) {
	return s.app, nil
}
