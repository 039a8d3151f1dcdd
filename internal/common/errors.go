// Package common defines sentinel errors shared across the application
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned when an operation requires an existing contact
	// and the id does not resolve to one. Plain reads report absence as a nil
	// result instead.
	ErrNotFound = errors.New("not found")

	// ErrNoDeviceSource is returned when a device import or export is
	// requested but no device contact source is configured.
	ErrNoDeviceSource = errors.New("no device source configured")
)
