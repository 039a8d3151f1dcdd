// Package models defines the domain types shared by the storage, service and
// device layers.
package models

// Contact is a persisted entry in the local address book.
//
// Zero values mean "absent": ID 0 is a record not yet persisted, DeviceID 0
// is a record not linked to the device address book, and empty strings map to
// NULL columns in storage.
type Contact struct {
	ID          int64
	Name        string
	PhoneNumber string
	Email       string
	Address     string
	Birthday    string
	Notes       string
	PhotoPath   string
	IsFavorite  bool

	// UpdatedAt is milliseconds since epoch, stamped by the service layer on
	// every successful insert or update. Never set by callers.
	UpdatedAt int64

	// DeviceID is the identifier of the corresponding record in the device
	// address book, if this contact has been exported there.
	DeviceID int64
}

// DeviceContact is an ephemeral entry read from the device address book.
// It has no identity of its own until merged into a Contact.
type DeviceContact struct {
	DisplayName string
	PhoneNumber string
}

// MergeResult reports what a device import pass changed.
type MergeResult struct {
	Added   int
	Updated int
}
