package domain

import "errors"

var (
	// ErrHandleUnavailable means no enforcement surface is attached.
	ErrHandleUnavailable = errors.New("enforcement handle unavailable")

	// ErrInspectorUnavailable means no foreground inspector was configured.
	ErrInspectorUnavailable = errors.New("foreground inspector unavailable")

	// ErrUnsupportedPlatform means foreground inspection is not implemented here.
	ErrUnsupportedPlatform = errors.New("foreground inspection not supported on this platform")

	// ErrCommandNotConfigured means an enforcement command was not set.
	ErrCommandNotConfigured = errors.New("enforcement command not configured")

	// ErrProfileNotFound means no profile is registered under the given ID.
	ErrProfileNotFound = errors.New("profile not found")
)
