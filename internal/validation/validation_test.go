package validation

import (
	"errors"
	"testing"

	"github.com/morkath/contacts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"", false},
		{"   ", false},
		{"Anna O'Brien", true},
		{"Jean-Luc", true},
		{"Дмитрий", true},
		{"Dr. John Smith 2nd", true},
		{"Bob@home", false},
		{"Alice;", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, Name(tc.in).Valid, "Name(%q)", tc.in)
	}
	assert.NotEmpty(t, Name("").Message)
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"", false},
		{"12345", false}, // too short
		{"+1 (555) 123-4567", true},
		{"5551234567", true},
		{"+123456789012345678901", false}, // too long
		{"555-ABC-1234", false},
		{"++15551234567", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, Phone(tc.in).Valid, "Phone(%q)", tc.in)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"", true}, // optional field, blank allowed
		{"not-an-email", false},
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"user@example.c", false},
		{"user@example.toolong1", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, Email(tc.in).Valid, "Email(%q)", tc.in)
	}
}

func TestCheck_AggregatesAllFields(t *testing.T) {
	err := Check(models.Contact{Name: "", PhoneNumber: "123", Email: "nope"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Error(), "name:")
}

func TestCheck_ValidContact(t *testing.T) {
	err := Check(models.Contact{Name: "Anna O'Brien", PhoneNumber: "+1 (555) 123-4567", Email: ""})
	assert.NoError(t, err)
}
