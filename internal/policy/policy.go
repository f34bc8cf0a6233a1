// Package policy implements the Strategy pattern for protection profiles.
// Each profile (exam, practice) decides which protections the host arms.
package policy

import (
	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// DefaultProfileID is armed when no profile is configured.
const DefaultProfileID = "exam"

// ProtectionProfile defines the strategy interface for a set of protections.
type ProtectionProfile interface {
	// ID returns unique identifier (e.g., "exam", "practice").
	ID() string

	// Name returns human-readable name for display.
	Name() string

	// Pinning reports whether the screen should be pinned.
	Pinning() bool

	// ScreenshotBlocking reports whether capture should be blocked.
	ScreenshotBlocking() bool

	// RecordingDetection reports whether recording detection should be on.
	RecordingDetection() bool

	// Monitoring reports whether app switches should be monitored.
	Monitoring() bool
}

// ToProfile converts a ProtectionProfile to a domain.Profile entity.
func ToProfile(p ProtectionProfile) domain.Profile {
	return domain.Profile{
		ID:                 p.ID(),
		Name:               p.Name(),
		Pinning:            p.Pinning(),
		ScreenshotBlocking: p.ScreenshotBlocking(),
		RecordingDetection: p.RecordingDetection(),
		Monitoring:         p.Monitoring(),
	}
}
