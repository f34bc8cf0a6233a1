// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// UnknownAppName is reported when the foreground app cannot be named.
const UnknownAppName = "Unknown App"

// AppIdentity identifies an application (process name or bundle name).
type AppIdentity string

// ProtectionState reflects the last successfully requested protections.
// It is not necessarily the true OS state.
type ProtectionState struct {
	ScreenPinned      bool `json:"screen_pinned"`
	ScreenshotBlocked bool `json:"screenshot_blocked"`
}

// MonitoringState is the state of a SwitchMonitor.
type MonitoringState string

const (
	MonitoringIdle    MonitoringState = "idle"
	MonitoringRunning MonitoringState = "running"
)

// SwitchEvent is emitted when the protected app is not in the foreground.
type SwitchEvent struct {
	AppName    string    `json:"app_name"`
	DurationMs int64     `json:"duration_ms"`
	DetectedAt time.Time `json:"detected_at"`
}

// Profile is a named bundle of protections armed together.
type Profile struct {
	ID                 string
	Name               string
	Pinning            bool
	ScreenshotBlocking bool
	RecordingDetection bool
	Monitoring         bool
}

// JournalEntry is a switch event as stored by an EventJournal.
type JournalEntry struct {
	ID           string    `json:"id"`
	AppName      string    `json:"app_name"`
	DurationMs   int64     `json:"duration_ms"`
	ProtectedApp string    `json:"protected_app"`
	DetectedAt   time.Time `json:"detected_at"`
}
