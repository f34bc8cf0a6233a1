// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"context"
	"errors"
	"sync"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// ErrDeviceRejected is returned by FakeDevice when a call is set to fail.
var ErrDeviceRejected = errors.New("fake device rejected request")

// FakeForeground is a ForegroundInspector whose answer is set by the test.
type FakeForeground struct {
	mu    sync.Mutex
	app   domain.AppIdentity
	err   error
	calls int
}

// NewFakeForeground creates an inspector reporting app in front.
func NewFakeForeground(app domain.AppIdentity) *FakeForeground {
	return &FakeForeground{app: app}
}

// SwitchTo brings app to the foreground and clears any error.
func (f *FakeForeground) SwitchTo(app domain.AppIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.app = app
	f.err = nil
}

// Fail makes every query return err until SwitchTo is called.
func (f *FakeForeground) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns how many times the foreground was queried.
func (f *FakeForeground) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeForeground) CurrentForegroundApp(ctx context.Context) (domain.AppIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.app, nil
}

// FakeDevice is an EnforcementHandle that tracks what the OS would show.
type FakeDevice struct {
	mu            sync.Mutex
	pinned        bool
	blocked       bool
	rejectPin     bool
	rejectUnpin   bool
	rejectCapture bool
}

// NewFakeDevice creates an unpinned device with capture allowed.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{}
}

// RejectPin makes pin requests fail.
func (d *FakeDevice) RejectPin(reject bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejectPin = reject
}

// RejectUnpin makes unpin requests fail.
func (d *FakeDevice) RejectUnpin(reject bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejectUnpin = reject
}

// RejectCapture makes capture flag changes fail.
func (d *FakeDevice) RejectCapture(reject bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejectCapture = reject
}

// Pinned reports the device's pin state.
func (d *FakeDevice) Pinned() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pinned
}

// CaptureBlocked reports the device's capture-block flag.
func (d *FakeDevice) CaptureBlocked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.blocked
}

func (d *FakeDevice) SetPinned(pinned bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if (pinned && d.rejectPin) || (!pinned && d.rejectUnpin) {
		return ErrDeviceRejected
	}
	d.pinned = pinned
	return nil
}

func (d *FakeDevice) SetCaptureBlocked(blocked bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rejectCapture {
		return ErrDeviceRejected
	}
	d.blocked = blocked
	return nil
}

// EventRecorder is an EventSink that keeps every event it receives.
type EventRecorder struct {
	mu     sync.Mutex
	events []domain.SwitchEvent
}

func (r *EventRecorder) OnAppSwitch(event domain.SwitchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []domain.SwitchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SwitchEvent(nil), r.events...)
}

// Len returns the number of recorded events.
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

var (
	_ domain.ForegroundInspector = (*FakeForeground)(nil)
	_ domain.EnforcementHandle   = (*FakeDevice)(nil)
	_ domain.EventSink           = (*EventRecorder)(nil)
)
