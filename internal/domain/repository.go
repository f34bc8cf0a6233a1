package domain

import "context"

// ForegroundInspector reports which application currently owns the screen.
// Implementations may poll or cache push notifications; the monitor only
// asks on each tick.
type ForegroundInspector interface {
	// CurrentForegroundApp returns the identity of the foreground app.
	CurrentForegroundApp(ctx context.Context) (AppIdentity, error)
}

// EnforcementHandle is the OS surface used to apply protections.
// Availability is checked by the caller; a nil handle means unavailable.
type EnforcementHandle interface {
	// SetPinned pins (true) or unpins (false) the screen to this app.
	SetPinned(pinned bool) error

	// SetCaptureBlocked sets or clears the display capture-block flag.
	SetCaptureBlocked(blocked bool) error
}

// EventSink receives switch events. Calls arrive in detection order on a
// goroutine owned by the monitor; implementations must not call back into
// the monitor's Stop synchronously.
type EventSink interface {
	OnAppSwitch(event SwitchEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event SwitchEvent)

// OnAppSwitch calls f(event).
func (f EventSinkFunc) OnAppSwitch(event SwitchEvent) { f(event) }

// ProcessManager handles OS process lookups.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// NameOf returns the executable name of a running process.
	NameOf(pid int) (string, error)

	// FindByName returns PIDs of processes matching the pattern.
	FindByName(pattern string) ([]int, error)
}

// KeyProvider abstracts the source of encryption keys.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}

// EventJournal records switch events for later review.
// It is an observer only; engine state is never restored from it.
type EventJournal interface {
	EventSink

	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]JournalEntry, error)

	// Clear removes all entries.
	Clear() error

	// Close releases resources (e.g., database connection).
	Close() error
}
