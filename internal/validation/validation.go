// Package validation holds the syntactic rules a contact must pass before it
// is written. The checks are advisory: storage never rejects a record for
// failing them, the service layer does.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/morkath/contacts/internal/models"
)

var (
	nameRe  = regexp.MustCompile(`^[\p{L}0-9 .'-]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ()-]{10,20}$`)
	emailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
)

// Result is the outcome of a single field check.
type Result struct {
	Valid   bool
	Message string
}

func invalid(msg string) Result { return Result{Message: msg} }

var ok = Result{Valid: true}

// Name requires a non-blank string of letters (any script), digits, spaces,
// apostrophes, periods and hyphens.
func Name(name string) Result {
	if strings.TrimSpace(name) == "" {
		return invalid("Name cannot be empty")
	}
	if !nameRe.MatchString(name) {
		return invalid("Name contains invalid characters")
	}
	return ok
}

// Phone requires a non-blank number: an optional leading '+' followed by
// 10–20 characters drawn from digits, spaces, parentheses and hyphens.
func Phone(phone string) Result {
	if strings.TrimSpace(phone) == "" {
		return invalid("Phone number cannot be empty")
	}
	if !phoneRe.MatchString(phone) {
		return invalid("Invalid phone number format")
	}
	return ok
}

// Email checks local-part@domain.tld shape with a 2–6 letter top-level
// segment. A blank email is valid: the field is optional.
func Email(email string) Result {
	if strings.TrimSpace(email) == "" {
		return ok
	}
	if !emailRe.MatchString(email) {
		return invalid("Invalid email format")
	}
	return ok
}

// Error aggregates per-field validation messages so a form can show feedback
// for every failing field at once.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Check runs all field rules against c. It returns nil when every check
// passes, otherwise an *Error listing each failing field independently.
func Check(c models.Contact) error {
	fields := make(map[string]string)
	if r := Name(c.Name); !r.Valid {
		fields["name"] = r.Message
	}
	if r := Phone(c.PhoneNumber); !r.Valid {
		fields["phone"] = r.Message
	}
	if r := Email(c.Email); !r.Valid {
		fields["email"] = r.Message
	}
	if len(fields) == 0 {
		return nil
	}
	return &Error{Fields: fields}
}
