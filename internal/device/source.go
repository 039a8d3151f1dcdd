// Package device integrates with the device address book: reading it as a
// contact source, writing linked records back, and reconciling it against the
// local store.
package device

import (
	"context"
	"strings"
	"unicode"

	"github.com/morkath/contacts/internal/models"
)

// Source is a read-only view of the device address book. Each read produces
// a fresh snapshot ordered by display name ascending.
type Source interface {
	Contacts(ctx context.Context) ([]models.DeviceContact, error)
}

// Writer mutates the device address book. Records are keyed by the device's
// own contact identifier, not by local ids.
type Writer interface {
	// Add creates a device record for c and returns its device id.
	Add(ctx context.Context, c models.Contact) (int64, error)

	// Update rewrites the name and phone number of the device record with
	// the given id. Returns false when no such record exists.
	Update(ctx context.Context, deviceID int64, c models.Contact) (bool, error)

	// Delete removes the device record with the given id. Returns false when
	// no such record exists.
	Delete(ctx context.Context, deviceID int64) (bool, error)
}

// NormalizePhone strips whitespace and hyphens from a phone number. The
// result is used solely as a matching key: "555 123-4567" and "5551234567"
// normalize to the same value.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, phone)
}
